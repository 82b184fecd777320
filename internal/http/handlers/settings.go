package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/bmh/internal/enhancer"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/repository"
)

var validBorderStyles = map[string]bool{
	"solid":  true,
	"dashed": true,
	"dotted": true,
	"double": true,
}

type SettingsHandler struct {
	repo *repository.SettingsRepository
	now  func() time.Time
}

func NewSettingsHandler(repo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo, now: time.Now}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.repo.Load(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load settings"})
	}

	return c.JSON(fiber.Map{
		"settings": settings,
		"palette":  palette(),
	})
}

// Update overlays the posted fields onto the stored settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()
	settings, err := h.repo.Load(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load settings"})
	}

	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	if err := validateSettings(settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.repo.Save(ctx, settings, h.now().UTC()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to save settings"})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

func validateSettings(settings models.Settings) error {
	if settings.Border.Size < 0 || settings.Border.Size > 20 {
		return fmt.Errorf("border size must be between 0 and 20")
	}
	if !validBorderStyles[strings.ToLower(settings.Border.Style)] {
		return fmt.Errorf("invalid border style")
	}
	for _, bookmark := range settings.CustomBookmarks {
		if strings.TrimSpace(bookmark.Name) == "" {
			return fmt.Errorf("custom bookmark name is required")
		}
		if strings.TrimSpace(bookmark.Color) == "" {
			return fmt.Errorf("custom bookmark color is required")
		}
	}
	return nil
}

func palette() map[string]string {
	colors := make(map[string]string, len(models.KnownStatuses))
	for _, status := range models.KnownStatuses {
		colors[string(status)] = enhancer.ColorForStatus(string(status))
	}
	return colors
}
