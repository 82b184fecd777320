package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/config"
	"github.com/gabriel/bmh/internal/http/handlers"
	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/platform/defaults"
	"github.com/gabriel/bmh/internal/repository"
)

// Dependencies carries the collaborators the server does not build from the
// database handle. Nil fields are built from cfg.
type Dependencies struct {
	Registry *platform.Registry
	Resolver handlers.TitleResolver
	Importer handlers.ListImporter
	Logger   *slog.Logger
}

func NewServer(cfg config.Config, db *sqlx.DB, deps Dependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		registry, err := defaults.NewRegistry(cfg.YAMLAdaptersPath)
		if err != nil {
			deps.Logger.Warn("yaml adapters loaded with warnings", "error", err)
		}
		deps.Registry = registry
	}
	if deps.Resolver == nil || deps.Importer == nil {
		stack := metadata.NewStack(metadata.StackOptions{
			AniListURL:  cfg.AniListURL,
			MangaDexURL: cfg.MangaDexAPIURL,
			Cache:       repository.NewMetadataCacheRepository(db),
			CacheTTL:    cfg.MetadataCacheTTL,
			Logger:      deps.Logger,
		})
		if deps.Resolver == nil {
			deps.Resolver = stack.Resolver
		}
		if deps.Importer == nil {
			deps.Importer = stack.MangaDex
		}
	}

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(recover.New())

	libraryRepo := repository.NewLibraryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	health := handlers.NewHealthHandler(db)
	platforms := handlers.NewPlatformsHandler(deps.Registry)
	enhance := handlers.NewEnhanceHandler(deps.Registry, libraryRepo, settingsRepo, deps.Logger)
	entries := handlers.NewLibraryHandler(libraryRepo, deps.Registry)
	meta := handlers.NewMetadataHandler(deps.Resolver, deps.Importer)
	settings := handlers.NewSettingsHandler(settingsRepo)

	app.Get("/health", health.Check)
	app.Get("/v1/health", health.Check)

	v1 := app.Group("/v1")
	v1.Get("/platforms", platforms.List)
	v1.Get("/platforms/detect", platforms.Detect)
	v1.Get("/platforms/reader", platforms.Reader)
	v1.Post("/enhance", enhance.Enhance)
	v1.Get("/library", entries.List)
	v1.Post("/library", entries.Create)
	v1.Get("/library/:id", entries.GetByID)
	v1.Put("/library/:id", entries.Update)
	v1.Put("/library/:id/status", entries.UpdateStatus)
	v1.Delete("/library/:id", entries.Delete)
	v1.Get("/metadata", meta.Lookup)
	v1.Post("/metadata/mdlist", meta.ImportMDList)
	v1.Get("/settings", settings.Get)
	v1.Put("/settings", settings.Update)

	return app
}
