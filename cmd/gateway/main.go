package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johniman211/payssd/internal/api"
	"github.com/johniman211/payssd/internal/config"
	"github.com/johniman211/payssd/internal/events"
	"github.com/johniman211/payssd/internal/handlers"
	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/notify"
	"github.com/johniman211/payssd/internal/payments"
	"github.com/johniman211/payssd/internal/processor"
	"github.com/johniman211/payssd/internal/repository"
	"github.com/johniman211/payssd/internal/telemetry"
)

func main() {
	cfg := config.Load()

	if err := telemetry.InitTelemetry("payssd-gateway", cfg.OTLPEndpoint); err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting PaySSD gateway")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer redisClient.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	merchantRepo := repository.NewMerchantRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	var mailer interfaces.Mailer = notify.LogMailer{}
	if cfg.SMTPAddr != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	adminEmails := splitEmails(cfg.AdminEmail)
	dispatcher := notify.NewDispatcher(notificationRepo, merchantRepo, outboxRepo, adminEmails)

	drainer := &notify.Drainer{
		Outbox:       outboxRepo,
		Mailer:       mailer,
		Publisher:    publisher,
		PollInterval: 5 * time.Second,
		BatchSize:    50,
		MaxAttempts:  3,
	}
	drainCtx, stopDrainer := context.WithCancel(context.Background())
	go drainer.Run(drainCtx)

	paymentService := payments.NewService(
		merchantRepo,
		paymentRepo,
		processor.NewClient(cfg.ProcessorBaseURL),
		dispatcher,
		payments.Credentials{
			TestSecretKey: cfg.TestSecretKey,
			LiveSecretKey: cfg.LiveSecretKey,
		},
		cfg.DefaultCurrency,
		cfg.RedirectBaseURL,
	)

	router := api.NewRouter(api.Handlers{
		Payments:  handlers.NewPaymentHandler(paymentService, paymentRepo),
		Notify:    handlers.NewNotifyHandler(dispatcher, notificationRepo),
		Merchants: handlers.NewMerchantHandler(merchantRepo, payoutRepo, apiKeyRepo, dispatcher),
		Admin:     handlers.NewAdminHandler(merchantRepo, payoutRepo, dispatcher, cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret),
		Webhooks:  handlers.NewWebhookHandler(paymentRepo, merchantRepo, dispatcher, redisClient, cfg.WebhookSecret),
	}, apiKeyRepo, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		telemetry.Logger.Info("PaySSD gateway starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	stopDrainer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
