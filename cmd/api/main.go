package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/givehub/donation-platform/internal/config"
	"github.com/givehub/donation-platform/internal/handlers"
	"github.com/givehub/donation-platform/internal/queue"
	"github.com/givehub/donation-platform/internal/repository"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
	"github.com/givehub/donation-platform/pkg/logger"
	"github.com/givehub/donation-platform/pkg/pg"
	"github.com/givehub/donation-platform/pkg/prom"
	"github.com/givehub/donation-platform/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	receiptQueue, err := queue.NewQueue(redisAdap, queue.Config{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating receipt queue", "error", err)
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	donationRepo := repository.NewDonationRepository(db)
	programRepo := repository.NewProgramRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)
	ngoRepo := repository.NewNGORepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	helpQueryRepo := repository.NewHelpQueryRepository(db)

	// services
	donationService := services.NewDonationService(donationRepo, programRepo, receiptQueue)
	programService := services.NewProgramService(programRepo, donationRepo, registrationRepo)
	authService := services.NewAuthService(userRepo, config.Get().JWTSecret, config.Get().JWTTokenTTL)
	contentService := services.NewContentService(ngoRepo, galleryRepo, partnerRepo, helpQueryRepo)

	// v1 handlers
	authMiddleware := handlers.NewAuthMiddleware(authService)
	donationHandler := handlers.NewDonationHandler(donationService)
	programHandler := handlers.NewProgramHandler(programService)
	authHandler := handlers.NewAuthHandler(authService)
	contentHandler := handlers.NewContentHandler(contentService)
	healthHandler := handlers.NewHealthHandler()

	g := s.Router.Group("/api/v1")
	handlers.RegisterDonationRoutes(g, donationHandler, authMiddleware)
	handlers.RegisterProgramRoutes(g, programHandler, authMiddleware)
	handlers.RegisterAuthRoutes(g, authHandler, authMiddleware)
	handlers.RegisterContentRoutes(g, contentHandler, authMiddleware)
	handlers.RegisterHealthRoutes(g, healthHandler)

	if config.Get().AppDebugMetricsAddr != "" {
		go func() {
			prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
