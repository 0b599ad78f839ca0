package routes

import (
	"crew-match/internal/database"
	"crew-match/internal/delivery/http/handler"
	v1 "crew-match/internal/delivery/http/routes/v1"
	"crew-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Deps
	ws     *ws.Handler
}

func NewRegistry(db database.DB, deps v1.Deps, wsHandler *ws.Handler) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(db),
		v1:     deps,
		ws:     wsHandler,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)

	if r.ws != nil {
		app.Get("/ws/alerts", r.ws.HandleAlertsWS)
	}
}
