package handler

import (
	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/delivery/http/validation"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/repository"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalysisHandler struct {
	uc usecase.AnalysisUsecase
}

func NewAnalysisHandler(uc usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/analyses")
	grp.Post("", h.Create)
	grp.Get("", h.List)
}

func (h *AnalysisHandler) Create(c fiber.Ctx) error {
	var req dto.SaveAnalysisRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validation.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", validation.Fields(err), err)
	}

	a, err := h.uc.SaveAnalysis(c.Context(), usecase.AnalysisInput{
		ResumeFileName: req.ResumeFileName,
		MatchScore:     *req.MatchScore,
		Summary:        req.Summary,
		MatchedSkills:  req.MatchedSkills,
		MissingSkills:  req.MissingSkills,
	})
	if err != nil {
		return mapCommonUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toAnalysisResponse(a))
}

// List returns stored analyses, newest first.
func (h *AnalysisHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListAnalyses(c.Context(), limit, offset)
	if err != nil {
		return mapCommonUsecaseError(err)
	}

	out := make([]dto.AnalysisResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toAnalysisResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toAnalysisResponse(a repository.Analysis) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		ID:             a.ID.String(),
		ResumeFileName: a.ResumeFileName,
		MatchScore:     a.MatchScore,
		Summary:        a.Summary,
		MatchedSkills:  nonNilStrings(a.MatchedSkills),
		MissingSkills:  nonNilStrings(a.MissingSkills),
		AnalysisDate:   a.AnalysisDate.UTC(),
	}
}
