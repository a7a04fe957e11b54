package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sandbox-payment-gateway/config"
	httpHandler "sandbox-payment-gateway/internal/adapter/http/handler"
	"sandbox-payment-gateway/internal/adapter/storage/memory"
	"sandbox-payment-gateway/internal/service"
	"sandbox-payment-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Card Payment Sandbox")

	// Initialize in-memory stores. All state is volatile: a restart
	// wipes transactions and mirrored notifications.
	trxStore := memory.NewTransactionStore()
	notifStore := memory.NewNotificationStore()

	// Initialize core services
	sigSvc := service.NewHMACSignatureService(cfg.Sandbox.SecretKey)
	ipnSvc := service.NewIPNService(
		notifStore,
		sigSvc,
		&http.Client{Timeout: cfg.Sandbox.IPNTimeout},
		log,
	)
	checkoutSvc := service.NewCheckoutService(
		trxStore,
		ipnSvc,
		cfg.Sandbox.BaseURL,
		cfg.Sandbox.ChallengeOTP,
		log,
	)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CheckoutSvc: checkoutSvc,
		NotifStore:  notifStore,
		Logger:      log,
	})

	// HTTP Server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
