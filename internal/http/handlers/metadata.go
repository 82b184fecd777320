package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/bmh/internal/metadata"
)

type TitleResolver interface {
	Resolve(ctx context.Context, title string) metadata.Resolution
}

type ListImporter interface {
	ImportList(ctx context.Context, idOrURL string) metadata.ImportResult
}

type mdListRequest struct {
	List string `json:"list"`
}

type MetadataHandler struct {
	resolver TitleResolver
	importer ListImporter
}

func NewMetadataHandler(resolver TitleResolver, importer ListImporter) *MetadataHandler {
	return &MetadataHandler{resolver: resolver, importer: importer}
}

// Lookup maps a found resolution to 200, a miss to 404 and a provider
// failure to 502. The resolution is returned in every case.
func (h *MetadataHandler) Lookup(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "title is required"})
	}

	res := h.resolver.Resolve(c.UserContext(), title)
	switch res.Outcome {
	case metadata.OutcomeFound:
		return c.JSON(fiber.Map{
			"resolution": res,
			"format":     metadata.FormatName(*res.Data),
		})
	case metadata.OutcomeNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"resolution": res})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"resolution": res})
	}
}

func (h *MetadataHandler) ImportMDList(c *fiber.Ctx) error {
	var req mdListRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}

	result := h.importer.ImportList(c.UserContext(), req.List)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
	return c.JSON(result)
}
