package handler

import (
	"context"
	"time"

	"crew-match/internal/database"
	"crew-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db database.DB
}

func NewHealthHandler(db database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "ok"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			dbStatus = "unreachable"
		}
	}

	body := fiber.Map{"database": dbStatus}
	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", body)
	}
	return response.Success(c, status, response.MessageOK, body)
}
