package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/bmh/internal/platform"
)

type PlatformsHandler struct {
	registry *platform.Registry
}

func NewPlatformsHandler(registry *platform.Registry) *PlatformsHandler {
	return &PlatformsHandler{registry: registry}
}

func (h *PlatformsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": h.registry.List()})
}

func (h *PlatformsHandler) Detect(c *fiber.Ctx) error {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "url is required"})
	}

	adapter := h.registry.DetectCurrentPlatform(rawURL)
	if adapter == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no platform matches url"})
	}

	return c.JSON(fiber.Map{
		"platform":      describe(adapter),
		"prefix":        adapter.Prefix(),
		"readerPage":    adapter.IsReaderPage(rawURL),
		"badgePosition": adapter.BadgePosition(),
	})
}

func (h *PlatformsHandler) Reader(c *fiber.Ctx) error {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "url is required"})
	}

	adapter := h.registry.DetectCurrentPlatform(rawURL)
	if adapter == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no platform matches url"})
	}

	location := adapter.ParseReaderURL(rawURL)
	if location == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "url is not a reader page"})
	}

	return c.JSON(fiber.Map{
		"platform": adapter.ID(),
		"unit":     adapter.Unit(),
		"location": location,
	})
}

func describe(adapter platform.Adapter) platform.Descriptor {
	return platform.Descriptor{
		ID:    adapter.ID(),
		Name:  adapter.Name(),
		Kind:  adapter.Kind(),
		Unit:  adapter.Unit(),
		Hosts: adapter.Hosts(),
	}
}
