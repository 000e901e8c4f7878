package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pocketbook/internal/config"
	"pocketbook/internal/database"
	"pocketbook/internal/logger"
	"pocketbook/internal/notifier"
	"pocketbook/internal/router"
	"pocketbook/internal/services"
	"pocketbook/internal/validator"
)

// @title           Pocketbook API
// @version         1.0
// @description     Pocketbook tracks income, expenses, inventory, debts, work hours and a calendar for one person.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	client := notifier.NewClient(appConfig.TelegramAPIURL, appConfig.TelegramBotToken, appConfig.TelegramChatID,
		&http.Client{Timeout: appConfig.HTTPTimeout})
	notifications := services.NewNotificationService(client, appConfig.NotifyEvents, appConfig.HTTPTimeout)
	if appConfig.NotifyEvents && !client.Configured() {
		log.Warn("NOTIFY_EVENTS is set but the Telegram bot is not configured; event messages will be skipped")
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router.New(dbManager.DB(), appConfig, notifications),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Pocketbook server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Let in-flight event notifications finish.
	if w, ok := notifications.(interface{ Wait() }); ok {
		w.Wait()
	}
	return nil
}
