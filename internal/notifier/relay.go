package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/pkg/logger"
)

var (
	ErrNoAvailableRelays = errors.New("no available mail relays")
)

type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusFailed    DeliveryStatus = "FAILED"
)

// DeliveryResponse is what the mail relay answers with.
type DeliveryResponse struct {
	EventID     string         `json:"event_id"`
	Status      DeliveryStatus `json:"status"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	ErrorMsg    string         `json:"error_message,omitempty"`
	RelayID     string         `json:"relay_id"`
}

type RelayConfig struct {
	Name string
	URL  string
}

type Config struct {
	Relays                  []RelayConfig
	Timeout                 time.Duration
	MaxRetries              int
	RetryDelay              time.Duration
	MaxConns                int
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
}

// relay is one mail-relay endpoint with its own connection pool and a
// consecutive-failure circuit breaker.
type relay struct {
	name             string
	url              string
	client           *fasthttp.Client
	consecutiveFails atomic.Int32
	circuitOpenUntil atomic.Int64
}

func (r *relay) available() bool {
	return time.Now().Unix() > r.circuitOpenUntil.Load()
}

func (r *relay) recordSuccess() {
	r.consecutiveFails.Store(0)
}

func (r *relay) recordFailure(threshold int, timeout time.Duration) {
	fails := r.consecutiveFails.Add(1)
	if threshold > 0 && fails >= int32(threshold) {
		r.circuitOpenUntil.Store(time.Now().Add(timeout).Unix())
		logger.Warn("mail relay circuit opened",
			"relay", r.name,
			"consecutive_fails", fails,
			"timeout", timeout.String(),
		)
	}
}

// Client delivers receipt events to the configured mail relays, failing
// over between them and retrying with a fixed delay.
type Client struct {
	config *Config
	relays []*relay
	mu     sync.RWMutex
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if len(config.Relays) == 0 {
		return nil, errors.New("at least one mail relay is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 500 * time.Millisecond
	}

	c := &Client{
		config: config,
		relays: make([]*relay, 0, len(config.Relays)),
	}

	for _, rc := range config.Relays {
		c.relays = append(c.relays, &relay{
			name: rc.Name,
			url:  rc.URL,
			client: &fasthttp.Client{
				MaxConnsPerHost:     config.MaxConns,
				ReadTimeout:         config.Timeout,
				WriteTimeout:        config.Timeout,
				MaxIdleConnDuration: 60 * time.Second,
			},
		})
		logger.Info("mail relay configured", "name", rc.Name, "url", rc.URL)
	}

	return c, nil
}

// SendReceipt posts the receipt event to the first available relay,
// retrying until the attempt budget runs out.
func (c *Client) SendReceipt(ctx context.Context, event *model.ReceiptEvent) (*DeliveryResponse, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		r, err := c.pickRelay()
		if err != nil {
			lastErr = err
			continue
		}

		response, err := c.doRequest(ctx, r, body)
		if err != nil {
			r.recordFailure(c.config.CircuitBreakerThreshold, c.config.CircuitBreakerTimeout)
			logger.Warn("receipt delivery failed, retrying",
				"relay", r.name,
				"event_id", event.EventID,
				"attempt", attempt+1,
				"error", err.Error(),
			)
			lastErr = err
			continue
		}
		r.recordSuccess()

		var resp DeliveryResponse
		if err := json.Unmarshal(response, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal relay response: %w", err)
		}

		logger.Info("receipt delivered",
			"event_id", event.EventID,
			"transaction_reference", event.TransactionRef,
			"relay", r.name,
			"status", string(resp.Status),
		)
		return &resp, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// pickRelay returns the first relay whose circuit is closed. Order in the
// config is priority order.
func (c *Client) pickRelay() (*relay, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.relays {
		if r.available() {
			return r, nil
		}
	}
	return nil, ErrNoAvailableRelays
}

func (c *Client) doRequest(ctx context.Context, r *relay, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url + "/receipts")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := r.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}
