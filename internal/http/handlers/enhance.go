package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/bmh/internal/dom"
	"github.com/gabriel/bmh/internal/enhancer"
	"github.com/gabriel/bmh/internal/library"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/repository"
)

type enhanceRequest struct {
	URL     string          `json:"url"`
	HTML    string          `json:"html"`
	Inserts []insertRequest `json:"inserts"`
}

// insertRequest replays content the site adds after load, such as an
// infinite-scroll page, into the element matched by Parent.
type insertRequest struct {
	Parent string `json:"parent"`
	HTML   string `json:"html"`
}

// EnhanceHandler runs one enhancement pass over a posted page snapshot,
// replays any later insertions through the observer and returns the
// annotated markup.
type EnhanceHandler struct {
	registry *platform.Registry
	library  *repository.LibraryRepository
	settings *repository.SettingsRepository
	logger   *slog.Logger
}

func NewEnhanceHandler(registry *platform.Registry, libraryRepo *repository.LibraryRepository, settingsRepo *repository.SettingsRepository, logger *slog.Logger) *EnhanceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnhanceHandler{
		registry: registry,
		library:  libraryRepo,
		settings: settingsRepo,
		logger:   logger,
	}
}

func (h *EnhanceHandler) Enhance(c *fiber.Ctx) error {
	var req enhanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" || strings.TrimSpace(req.HTML) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "url and html are required"})
	}

	adapter := h.registry.DetectCurrentPlatform(req.URL)
	if adapter == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "unsupported platform"})
	}

	// Storage failures degrade to an unstyled page with default settings.
	ctx := c.UserContext()
	entries, err := h.library.List(ctx, repository.LibraryListOptions{})
	if err != nil {
		h.logger.Warn("library unavailable, enhancing without entries", "error", err)
		entries = nil
	}
	settings, err := h.settings.Load(ctx)
	if err != nil {
		h.logger.Warn("settings unavailable, using defaults", "error", err)
		settings = models.DefaultSettings()
	}

	page, err := dom.NewPage(req.URL, strings.NewReader(req.HTML))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid html"})
	}

	batches := make([]enhancer.ScanResult, 0, len(req.Inserts))
	result, sub := enhancer.New(adapter, library.NewIndex(entries), settings, h.logger).
		EnhancePage(ctx, page, func(batch enhancer.ScanResult) {
			batches = append(batches, batch)
		})
	defer sub.Stop()

	for i, insert := range req.Inserts {
		if _, err := page.Insert(insert.Parent, insert.HTML); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": fmt.Sprintf("insert %d: %v", i, err)})
		}
	}

	html, err := page.HTML()
	if err != nil {
		h.logger.Error("render enhanced page failed", "platform", adapter.ID(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to render page"})
	}

	return c.JSON(fiber.Map{
		"platform": adapter.ID(),
		"result":   result,
		"batches":  batches,
		"html":     html,
	})
}
