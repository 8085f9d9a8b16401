package handler

import (
	"errors"

	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/delivery/http/validation"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// AnalyzeHandler exposes the matching engine. POST /analyze answers with
// the bare match result; its errors use the common envelope.
type AnalyzeHandler struct {
	uc usecase.AnalyzeUsecase
}

func NewAnalyzeHandler(uc usecase.AnalyzeUsecase) *AnalyzeHandler {
	return &AnalyzeHandler{uc: uc}
}

func (h *AnalyzeHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/analyze", h.HandleAnalyze)
}

func (h *AnalyzeHandler) HandleAnalyze(c fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidJSON, nil, err)
	}
	if err := validation.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgMissingTexts, validation.Fields(err), err)
	}

	res, err := h.uc.Analyze(c.Context(), usecase.AnalyzeInput{
		ResumeText:      req.ResumeText,
		JDText:          req.JDText,
		ValidatedSkills: req.ValidatedSkills,
	})
	if err != nil {
		return mapAnalyzeUsecaseError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.AnalyzeResponse{
		MatchScore:    res.MatchScore,
		Summary:       res.Summary,
		MatchedSkills: nonNilStrings(res.MatchedSkills),
		MissingSkills: nonNilStrings(res.MissingSkills),
	})
}

func mapAnalyzeUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrMissingText):
		return middleware.NewAppError(fiber.StatusBadRequest, msgMissingTexts, nil, err)
	default:
		return mapCommonUsecaseError(err)
	}
}
