package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/database"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports database reachability and the applied schema version.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.db.PingContext(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"db":     "down",
			"time":   now,
		})
	}

	schema := ""
	if applied, err := database.AppliedMigrations(h.db); err == nil && len(applied) > 0 {
		schema = applied[len(applied)-1]
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"db":     "up",
		"schema": schema,
		"time":   now,
	})
}
