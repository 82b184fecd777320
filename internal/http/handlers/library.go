package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/bmh/internal/library"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/repository"
)

type entryRequest struct {
	Title           string               `json:"title"`
	Slug            string               `json:"slug"`
	Status          string               `json:"status"`
	Source          string               `json:"source"`
	SourceID        string               `json:"sourceId"`
	SourceURL       string               `json:"sourceUrl"`
	LastReadChapter *string              `json:"lastReadChapter"`
	TotalChapters   *int                 `json:"totalChapters"`
	CustomMarker    *string              `json:"customMarker"`
	PersonalData    *models.PersonalData `json:"personalData"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type LibraryHandler struct {
	repo     *repository.LibraryRepository
	registry *platform.Registry
	now      func() time.Time
}

func NewLibraryHandler(repo *repository.LibraryRepository, registry *platform.Registry) *LibraryHandler {
	return &LibraryHandler{repo: repo, registry: registry, now: time.Now}
}

func (h *LibraryHandler) List(c *fiber.Ctx) error {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	entries, err := h.repo.List(c.UserContext(), repository.LibraryListOptions{
		Statuses: statuses,
		Source:   c.Query("source"),
		Query:    c.Query("q"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to list library"})
	}

	return c.JSON(fiber.Map{"items": entries})
}

func (h *LibraryHandler) Create(c *fiber.Ctx) error {
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}

	input, err := h.toInput(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	entry := library.NewEntry(input, h.now())
	entry.PersonalData = req.PersonalData
	if err := library.Validate(entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	stored, err := h.repo.Upsert(c.UserContext(), entry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to save entry"})
	}

	return c.Status(fiber.StatusCreated).JSON(stored)
}

func (h *LibraryHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.repo.GetByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "entry not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to get entry"})
	}

	return c.JSON(entry)
}

// Update overwrites the editable fields of an entry. A lastReadChapter is
// recorded as read, so the chapter list and read count follow it.
func (h *LibraryHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()
	entry, err := h.repo.GetByID(ctx, c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "entry not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to get entry"})
	}

	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	input, err := h.toInput(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	now := h.now().UTC()
	entry.Title = input.Title
	entry.Slug = input.Slug
	entry.Status = input.Status
	entry.Source = input.Source
	entry.SourceID = strings.TrimSpace(input.SourceID)
	entry.SourceURL = strings.TrimSpace(input.SourceURL)
	entry.TotalChapters = input.TotalChapters
	entry.CustomMarker = input.CustomMarker
	if req.PersonalData != nil {
		entry.PersonalData = req.PersonalData
	}
	if input.LastReadChapter != nil {
		library.RecordChapter(entry, *input.LastReadChapter, now)
	}
	entry.LastUpdated = now

	if err := library.Validate(*entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.repo.Upsert(ctx, *entry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update entry"})
	}

	return c.JSON(updated)
}

func (h *LibraryHandler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid json body"})
	}
	status, ok := library.ParseStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
	}

	ctx := c.UserContext()
	id := c.Params("id")
	err := h.repo.UpdateStatus(ctx, id, status, h.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "entry not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update status"})
	}

	entry, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to get entry"})
	}
	return c.JSON(entry)
}

func (h *LibraryHandler) Delete(c *fiber.Ctx) error {
	err := h.repo.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "entry not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to delete entry"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LibraryHandler) toInput(req entryRequest) (library.EntryInput, error) {
	input := library.EntryInput{
		Title:           strings.TrimSpace(req.Title),
		Slug:            strings.TrimSpace(req.Slug),
		Source:          strings.ToLower(strings.TrimSpace(req.Source)),
		SourceID:        req.SourceID,
		SourceURL:       req.SourceURL,
		LastReadChapter: req.LastReadChapter,
		TotalChapters:   req.TotalChapters,
		CustomMarker:    req.CustomMarker,
	}
	if input.Title == "" {
		return input, fmt.Errorf("title is required")
	}

	input.Status = models.StatusPlanToRead
	if strings.TrimSpace(req.Status) != "" {
		status, ok := library.ParseStatus(req.Status)
		if !ok {
			return input, fmt.Errorf("invalid status")
		}
		input.Status = status
	}

	if input.Source == "" {
		input.Source = models.UnknownSource
		if h.registry != nil && strings.TrimSpace(req.SourceURL) != "" {
			input.Source = h.registry.InferSource(req.SourceURL)
		}
	}
	return input, nil
}

func parseStatuses(raw string) ([]models.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	statuses := make([]models.Status, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, ok := library.ParseStatus(part)
		if !ok {
			return nil, fmt.Errorf("invalid status filter")
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
