package routes

import (
	"smart-resume-match/internal/delivery/http/handler"
	v1 "smart-resume-match/internal/delivery/http/routes/v1"
	"smart-resume-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	analyze *handler.AnalyzeHandler
	events  *ws.Handler
	v1      v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, analyze *handler.AnalyzeHandler, events *ws.Handler, api v1.Handlers) *Registry {
	return &Registry{health: health, analyze: analyze, events: events, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerEngine(app)
	r.registerAPI(app)
	r.registerEvents(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerEngine(app *fiber.App) {
	if r.analyze != nil {
		r.analyze.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)
}

func (r *Registry) registerEvents(app *fiber.App) {
	if r.events != nil {
		r.events.RegisterRoutes(app)
	}
}
