package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/application/services"
	"github.com/spendenwerk/fundraising-backend/internal/config"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/mail"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/notifylog"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/paypal"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/persistence/postgres"
	"github.com/spendenwerk/fundraising-backend/internal/interfaces/rest/handlers"
	"github.com/spendenwerk/fundraising-backend/internal/interfaces/rest/middleware"
	"github.com/spendenwerk/fundraising-backend/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting fundraising backend",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	donationRepo := postgres.NewDonationRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)

	verifier := paypal.NewVerifier(cfg.PayPal)
	mailer := mail.NewSMTPMailer(cfg.Mailer)
	notificationLog := notifylog.New(logger)
	tokens := application.NewUUIDTokenGenerator(cfg.Tokens.Validity)

	paypalService := services.NewPayPalNotificationService(
		donationRepo, verifier, mailer, notificationLog, logger, nil,
	)
	creditCardService := services.NewCreditCardNotificationService(
		donationRepo, mailer, notificationLog, logger, nil,
	)
	donationService := services.NewAddDonationService(donationRepo, tokens, nil)
	membershipService := services.NewApplyForMembershipService(membershipRepo, mailer, logger, nil)

	h := handlers.NewHandlers(
		paypalService,
		creditCardService,
		donationService,
		membershipService,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger, cfg.Primary.IsDevelopment())(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewTokenSweeper(
		donationRepo,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
