package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DeliveryStatus mirrors what real mail relays answer with.
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusFailed    DeliveryStatus = "FAILED"
)

// ReceiptRequest is the payload the notifier posts to /receipts.
type ReceiptRequest struct {
	EventID        string    `json:"event_id" binding:"required"`
	DonationID     int64     `json:"donation_id"`
	TransactionRef string    `json:"transaction_reference" binding:"required"`
	Amount         float64   `json:"amount"`
	CauseName      string    `json:"cause_name"`
	DonorName      string    `json:"donor_name"`
	DonorEmail     string    `json:"donor_email" binding:"required"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReceiptResponse struct {
	EventID     string         `json:"event_id"`
	Status      DeliveryStatus `json:"status"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	ErrorMsg    string         `json:"error_message,omitempty"`
	RelayID     string         `json:"relay_id"`
}

type HealthResponse struct {
	Status       string    `json:"status"`
	RelayID      string    `json:"relay_id"`
	Timestamp    time.Time `json:"timestamp"`
	DeliveryRate float64   `json:"delivery_rate"`
}

// MailSink is a local stand-in for a transactional email relay. It accepts
// receipt payloads, pretends to send them with a configurable failure rate,
// and remembers everything it "delivered" for inspection.
type MailSink struct {
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	relayID      string
	rng          *rand.Rand

	mu       sync.Mutex
	received []ReceiptRequest
}

func NewMailSink(deliveryRate float64, minDelay, maxDelay time.Duration) *MailSink {
	return &MailSink{
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		relayID:      "MAILSINK_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MailSink) simulateDelivery(req *ReceiptRequest) *ReceiptResponse {
	delay := m.randomDelay()
	time.Sleep(delay)

	response := &ReceiptResponse{
		EventID: req.EventID,
		RelayID: m.relayID,
	}

	if m.shouldSucceed() {
		now := time.Now()
		response.Status = StatusDelivered
		response.DeliveredAt = &now

		m.mu.Lock()
		m.received = append(m.received, *req)
		m.mu.Unlock()

		log.Info().
			Str("event_id", req.EventID).
			Str("transaction_reference", req.TransactionRef).
			Str("donor_email", req.DonorEmail).
			Dur("delay", delay).
			Msg("receipt delivered")
	} else {
		response.Status = StatusFailed
		response.ErrorMsg = "mailbox temporarily unavailable"

		log.Warn().
			Str("event_id", req.EventID).
			Str("transaction_reference", req.TransactionRef).
			Msg("receipt delivery failed")
	}

	return response
}

func (m *MailSink) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MailSink) shouldSucceed() bool {
	return m.rng.Float64() < m.deliveryRate
}

type Handler struct {
	sink *MailSink
}

func NewHandler(sink *MailSink) *Handler {
	return &Handler{sink: sink}
}

func (h *Handler) SendReceipt(c *gin.Context) {
	var req ReceiptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	response := h.sink.simulateDelivery(&req)

	statusCode := http.StatusOK
	if response.Status == StatusFailed {
		statusCode = http.StatusBadGateway
	}

	c.JSON(statusCode, response)
}

// ListReceipts dumps every receipt the sink has accepted, newest last.
func (h *Handler) ListReceipts(c *gin.Context) {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"count":    len(h.sink.received),
		"receipts": h.sink.received,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		RelayID:      h.sink.relayID,
		Timestamp:    time.Now(),
		DeliveryRate: h.sink.deliveryRate,
	})
}

// UpdateConfig allows changing the failure rate at runtime, handy when
// rehearsing retry behaviour locally.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliveryRate *float64 `json:"delivery_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliveryRate != nil {
		if *config.DeliveryRate >= 0 && *config.DeliveryRate <= 1.0 {
			h.sink.deliveryRate = *config.DeliveryRate
			log.Info().Float64("rate", *config.DeliveryRate).Msg("updated delivery rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "configuration updated",
		"delivery_rate": h.sink.deliveryRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("request processed")
	})

	router.POST("/receipts", handler.SendReceipt)
	router.GET("/receipts", handler.ListReceipts)
	router.PUT("/config", handler.UpdateConfig)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8091")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("starting mail sink")

	sink := NewMailSink(deliveryRate, minDelay, maxDelay)
	handler := NewHandler(sink)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start mail sink")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down mail sink")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
