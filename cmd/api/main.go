package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabriel/bmh/internal/config"
	"github.com/gabriel/bmh/internal/database"
	apihttp "github.com/gabriel/bmh/internal/http"
	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/notifications"
	"github.com/gabriel/bmh/internal/platform/defaults"
	"github.com/gabriel/bmh/internal/repository"
	"github.com/gabriel/bmh/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open sqlite", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.ApplyMigrations(db, cfg.MigrationsPath); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	if cfg.SeedDefaultData {
		if err := database.SeedDefaults(db); err != nil {
			slog.Error("failed to seed defaults", "error", err)
			os.Exit(1)
		}
	}

	registry, registryErr := defaults.NewRegistry(cfg.YAMLAdaptersPath)
	if registryErr != nil {
		slog.Warn("platform registry loaded with warnings", "error", registryErr)
	}

	cache := repository.NewMetadataCacheRepository(db)
	stack := metadata.NewStack(metadata.StackOptions{
		AniListURL:  cfg.AniListURL,
		MangaDexURL: cfg.MangaDexAPIURL,
		Cache:       cache,
		CacheTTL:    cfg.MetadataCacheTTL,
		Logger:      logger,
	})

	notifier, closeNotifier, err := notifications.FromConfig(cfg.NotifyWebhookURL, notifications.AMQPConfig{
		URL:        cfg.AMQP.URL,
		Exchange:   cfg.AMQP.Exchange,
		RoutingKey: cfg.AMQP.RoutingKey,
		QueueName:  cfg.AMQP.QueueName,
	}, logger)
	if err != nil {
		slog.Error("failed to configure notifications", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			slog.Warn("notifier close failed", "error", err)
		}
	}()

	app := apihttp.NewServer(cfg, db, apihttp.Dependencies{
		Registry: registry,
		Resolver: stack.Resolver,
		Importer: stack.MangaDex,
		Logger:   logger,
	})

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	poller := scheduler.NewPoller(
		repository.NewLibraryRepository(db),
		stack.Resolver,
		cache,
		notifier,
		scheduler.PollerConfig{
			Interval:      time.Duration(cfg.SchedulerMinutes) * time.Minute,
			BackfillBatch: cfg.BackfillBatch,
			CacheTTL:      cfg.MetadataCacheTTL,
			Providers:     stack.Resolver.Providers(),
			NotifyEnabled: notifier.Len() > 0,
		},
		slog.Default(),
	)
	if cfg.SchedulerEnabled {
		poller.Start(pollerCtx)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	slog.Info("api started", "port", cfg.Port, "env", cfg.Environment, "platforms", len(registry.Ordered()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down server")
	pollerCancel()
	if cfg.SchedulerEnabled {
		poller.StopWait(2 * time.Second)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
