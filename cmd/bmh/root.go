package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/config"
	"github.com/gabriel/bmh/internal/database"
	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/platform/defaults"
	"github.com/gabriel/bmh/internal/repository"
)

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "bmh",
		Short:         "Library-aware helpers for manga and webtoon sites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newDetectCmd(opts),
		newReaderCmd(opts),
		newEnhanceCmd(opts),
		newResolveCmd(opts),
		newMDListCmd(opts),
		newLibraryCmd(opts),
		newCacheCmd(opts),
		newBackfillCmd(opts),
	)
	return root
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// env is the state shared by commands that touch the library database.
type env struct {
	cfg      config.Config
	db       *sqlx.DB
	registry *platform.Registry
	logger   *slog.Logger
}

func (o *rootOptions) registry(cfg config.Config, logger *slog.Logger) *platform.Registry {
	registry, err := defaults.NewRegistry(cfg.YAMLAdaptersPath)
	if err != nil {
		logger.Warn("platform registry loaded with warnings", "error", err)
	}
	return registry
}

func (o *rootOptions) open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := o.logger()

	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	if err := database.ApplyMigrations(db, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.SeedDefaultData {
		if err := database.SeedDefaults(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &env{cfg: cfg, db: db, registry: o.registry(cfg, logger), logger: logger}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

func (e *env) metadata() metadata.Stack {
	return metadata.NewStack(metadata.StackOptions{
		AniListURL:  e.cfg.AniListURL,
		MangaDexURL: e.cfg.MangaDexAPIURL,
		Cache:       repository.NewMetadataCacheRepository(e.db),
		CacheTTL:    e.cfg.MetadataCacheTTL,
		Logger:      e.logger,
	})
}
