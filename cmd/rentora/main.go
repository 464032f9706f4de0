package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/notify"
	"github.com/rentora/rentora/internal/scheduler"
	"github.com/rentora/rentora/internal/server"
	"github.com/rentora/rentora/internal/store/postgres"
	redisstore "github.com/rentora/rentora/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("RENTORA_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("RENTORA_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL and apply the schema.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Outbound email: real SMTP client when configured, otherwise in-app only.
	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		if err != nil {
			return fmt.Errorf("smtp mailer: %w", err)
		}
		log.Info().Str("host", cfg.SMTP.Host).Msg("email delivery enabled")
	}

	// Notification fan-out: persistence, Redis pub/sub, optional email.
	sink := notify.New(store.Notifications(), store.Users(), pubsub, mailer)

	// Payment gateway: real client when configured, otherwise charge intents
	// are rejected with a clear error.
	var gw gateway.Gateway = gateway.Disabled{}
	if cfg.Gateway.BaseURL != "" {
		gw = gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey)
		log.Info().Str("url", cfg.Gateway.BaseURL).Msg("payment gateway enabled")
	}

	// Core services.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	leaseSvc := lease.NewService(store, sink, gw, cfg.Currency)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Batch scheduler: rent generation, reminders, overdue sweep, expiry notices.
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(store, sink, scheduler.Config{
			ReminderSpec:   cfg.Scheduler.ReminderSpec,
			OverdueSpec:    cfg.Scheduler.OverdueSpec,
			ExpirySpec:     cfg.Scheduler.ExpirySpec,
			RentGenSpec:    cfg.Scheduler.RentGenSpec,
			ReminderWindow: cfg.Scheduler.ReminderWindow,
			ExpiryWindow:   cfg.Scheduler.ExpiryWindow,
			RemindRepeat:   cfg.Scheduler.RemindRepeat,
		})
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, pubsub, authSvc, leaseSvc, sink)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
