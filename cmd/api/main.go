package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/clinique-avenir/voice-receptionist/internal/api/router"
	"github.com/clinique-avenir/voice-receptionist/internal/booking"
	"github.com/clinique-avenir/voice-receptionist/internal/calendar"
	appconfig "github.com/clinique-avenir/voice-receptionist/internal/config"
	"github.com/clinique-avenir/voice-receptionist/internal/http/handlers"
	"github.com/clinique-avenir/voice-receptionist/internal/knowledge"
	"github.com/clinique-avenir/voice-receptionist/internal/observability/metrics"
	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voice receptionist API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"clinic", cfg.ClinicName,
	)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	ctx := context.Background()

	// Calendar gateway is mandatory: without it there is nothing to offer.
	gateway, err := calendar.NewGoogleGateway(ctx, calendar.GoogleGatewayConfig{
		CredentialsFile: cfg.CredentialsFile,
		CalendarID:      cfg.CalendarID,
		Timezone:        cfg.ClinicTimezone,
		Timeout:         cfg.CalendarTimeout,
		Logger:          logger.Component("calendar"),
		Metrics:         bookingMetrics,
	})
	if err != nil {
		logger.Error("failed to initialize calendar gateway", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Error("invalid clinic timezone", "timezone", cfg.ClinicTimezone, "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	// Booking audit log is optional: the calendar stays the source of truth.
	var audit *booking.AppointmentLog
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		audit = booking.NewAppointmentLog(db)
		logger.Info("booking audit log enabled")
	}

	coordinator := booking.NewCoordinator(booking.CoordinatorConfig{
		Gateway:  gateway,
		Sessions: booking.NewSessionStore(redisClient, cfg.SessionTTL),
		Audit:    audit,
		Week:     schedule.WeekWithHours(cfg.OpenHour, cfg.CloseHour),
		Location: loc,
		Logger:   logger,
		Metrics:  bookingMetrics,
	})

	// Knowledge base is optional: without it getInfo apologises.
	var info *knowledge.Store
	if cfg.GeminiAPIKey != "" {
		embedder, err := knowledge.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			logger.Error("failed to initialize embedder", "error", err)
			os.Exit(1)
		}
		defer embedder.Close()

		info = knowledge.NewStore(embedder, logger.Component("knowledge"))
		if err := info.LoadFile(ctx, cfg.KnowledgeFile); err != nil {
			logger.Warn("failed to load knowledge file, getInfo will apologise",
				"file", cfg.KnowledgeFile, "error", err)
			info = nil
		} else {
			logger.Info("knowledge base loaded", "file", cfg.KnowledgeFile)
		}
	}

	webhookCfg := handlers.AssistantWebhookHandlerConfig{
		Coordinator: coordinator,
		AssistantID: cfg.AssistantID,
		Logger:      logger.Component("webhook"),
		Metrics:     bookingMetrics,
	}
	if info != nil {
		webhookCfg.Info = info
	}
	webhookHandler := handlers.NewAssistantWebhookHandler(webhookCfg)

	r := router.New(&router.Config{
		Logger:           logger,
		AssistantWebhook: webhookHandler,
		MetricsHandler:   promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
