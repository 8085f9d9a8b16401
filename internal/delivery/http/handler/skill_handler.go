package handler

import (
	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.AnalyzeUsecase
}

func NewSkillHandler(uc usecase.AnalyzeUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.List)
}

// List returns the loaded vocabulary in match order with its fingerprint.
func (h *SkillHandler) List(c fiber.Ctx) error {
	info := h.uc.Vocabulary(c.Context())
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SkillsResponse{
		Count:       len(info.Phrases),
		Fingerprint: info.Fingerprint,
		Skills:      nonNilStrings(info.Phrases),
	})
}
