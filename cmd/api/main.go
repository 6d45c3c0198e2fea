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

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fleetline/driver-desk/cmd/mainconfig"
	"github.com/fleetline/driver-desk/internal/api/router"
	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/callbacks"
	appconfig "github.com/fleetline/driver-desk/internal/config"
	"github.com/fleetline/driver-desk/internal/conversation"
	"github.com/fleetline/driver-desk/internal/http/handlers"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/notify"
	"github.com/fleetline/driver-desk/internal/observability/metrics"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/internal/tools"
	"github.com/fleetline/driver-desk/internal/webchat"
	"github.com/fleetline/driver-desk/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting driver-desk API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	cal, err := calendar.New()
	if err != nil {
		logger.Error("failed to load business calendar", "error", err)
		os.Exit(1)
	}

	st, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	engine := appointments.NewEngine(st.Appointments(), cal, logger)
	leadSvc := leads.NewService(st.Leads(), logger)
	scheduler := callbacks.NewScheduler(st.Callbacks(), cal, logger)

	if sender := buildEmailSender(ctx, cfg, logger); sender != nil {
		engine.WithNotifier(notify.NewConfirmations(sender, cfg.SalesEmail, logger))
	}

	convMetrics := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)
	registry := tools.NewRegistry(engine, leadSvc, scheduler, cal, logger, convMetrics)

	llm, closeLLM, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build llm client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	orchOpts := []conversation.Option{
		conversation.WithSampling(int32(cfg.MaxTokens), float32(cfg.Temperature)),
		conversation.WithMetrics(convMetrics),
	}
	if cfg.LLMProvider == "bedrock" && cfg.BedrockModelID != "" {
		orchOpts = append(orchOpts, conversation.WithModel(cfg.BedrockModelID))
	}
	orch := conversation.NewOrchestrator(llm, registry, logger, orchOpts...)

	sessions := buildSessionStore(cfg, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		VoiceWebhook:        handlers.NewVoiceWebhookHandler(st.Calls(), engine, leadSvc, logger),
		Dashboard:           handlers.NewDashboardHandler(st, logger),
		Webchat:             webchat.NewHandler(orch, sessions, nil, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  []string{"*"},
		WebchatMessageRate:  2,
		WebchatMessageBurst: 5,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
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
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildStore(cfg *appconfig.Config, logger *logging.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres record store")
		return store.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}

	js, err := store.NewJSONStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using json record store", "dir", cfg.DataDir)
	return js, func() {}, nil
}

func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) conversation.SessionStore {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory session store")
		return conversation.NewMemorySessionStore()
	}
	opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return conversation.NewRedisSessionStore(redis.NewClient(opts), cfg.SessionTTL, nil)
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, func(), error) {
	noop := func() {}
	switch cfg.LLMProvider {
	case "bedrock":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		primary := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		// Gemini rides along as the fallback when a key is configured.
		if cfg.GeminiAPIKey != "" {
			gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
			if err != nil {
				return nil, nil, err
			}
			return conversation.NewFallbackLLMClient(primary, gemini, logger), func() { _ = gemini.Close() }, nil
		}
		return primary, noop, nil
	case "gemini":
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, nil, err
		}
		return gemini, func() { _ = gemini.Close() }, nil
	default:
		logger.Warn("no llm provider configured, using the scripted stub")
		return conversation.NewStubLLMClient(), noop, nil
	}
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but api key missing, confirmations disabled")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("ses selected but aws config failed, confirmations disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return nil
	}
}
