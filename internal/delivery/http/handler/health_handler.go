package handler

import (
	"smart-resume-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const rootHealthText = "NLP Service is running and healthy."

type HealthHandler struct {
	service string
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
}

// HandleRoot is the plain text liveness probe.
func (h *HealthHandler) HandleRoot(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(rootHealthText)
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"status":  "healthy",
		"service": h.service,
	})
}
