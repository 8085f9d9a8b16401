package handler

import (
	"errors"
	"strconv"

	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/delivery/http/validation"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/repository"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// JobsHandler serves stored analysis batches and recruiter review actions.
type JobsHandler struct {
	uc usecase.BatchUsecase
}

func NewJobsHandler(uc usecase.BatchUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	grp := r.Group("/jobs")
	grp.Post("", h.HandleSaveBatch)
	grp.Get("", h.HandleListBatches)
	grp.Get("/:id", h.HandleGetBatch)
	grp.Put("/:batchId/candidates/:candidateId", h.HandleUpdateStatus)
	grp.Put("/:batchId/candidates/:candidateId/notes", h.HandleUpdateNotes)
}

func (h *JobsHandler) HandleSaveBatch(c fiber.Ctx) error {
	var req dto.SaveBatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validation.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", validation.Fields(err), err)
	}

	cands := make([]usecase.RankedCandidate, 0, len(req.RankedCandidates))
	for _, rc := range req.RankedCandidates {
		cands = append(cands, usecase.RankedCandidate{
			FileName:      rc.FileName,
			MatchScore:    rc.MatchScore,
			Summary:       rc.Summary,
			MatchedSkills: rc.MatchedSkills,
			MissingSkills: rc.MissingSkills,
			Status:        rc.Status,
			Notes:         rc.Notes,
		})
	}

	b, err := h.uc.SaveBatch(c.Context(), usecase.SaveBatchInput{
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Candidates:     cands,
	})
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toBatchResponse(b))
}

func (h *JobsHandler) HandleListBatches(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListBatches(c.Context(), limit, offset)
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	out := make([]dto.BatchSummaryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.BatchSummaryResponse{
			ID:             it.ID.String(),
			JobTitle:       it.JobTitle,
			AnalysisDate:   it.AnalysisDate.UTC(),
			CandidateCount: it.CandidateCount,
			TopScore:       it.TopScore,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobsHandler) HandleGetBatch(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, msgBatchNotFound, nil, err)
	}

	b, err := h.uc.GetBatch(c.Context(), id)
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toBatchResponse(b))
}

func (h *JobsHandler) HandleUpdateStatus(c fiber.Ctx) error {
	batchID, candidateID, err := candidatePath(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCandidateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	b, err := h.uc.UpdateCandidateStatus(c.Context(), batchID, candidateID, req.Status)
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toBatchResponse(b))
}

func (h *JobsHandler) HandleUpdateNotes(c fiber.Ctx) error {
	batchID, candidateID, err := candidatePath(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCandidateNotesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validation.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", validation.Fields(err), err)
	}

	b, err := h.uc.UpdateCandidateNotes(c.Context(), batchID, candidateID, req.Notes)
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toBatchResponse(b))
}

func candidatePath(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	batchID, err := uuid.Parse(c.Params("batchId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, msgBatchNotFound, nil, err)
	}
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, msgCandidateNotFound, nil, err)
	}
	return batchID, candidateID, nil
}

func toBatchResponse(b repository.JobBatch) dto.BatchResponse {
	out := dto.BatchResponse{
		ID:               b.ID.String(),
		JobTitle:         b.JobTitle,
		JobDescription:   b.JobDescription,
		AnalysisDate:     b.AnalysisDate.UTC(),
		RankedCandidates: make([]dto.CandidateResponse, 0, len(b.Candidates)),
	}
	for _, cand := range b.Candidates {
		out.RankedCandidates = append(out.RankedCandidates, dto.CandidateResponse{
			ID:            cand.ID.String(),
			FileName:      cand.FileName,
			MatchScore:    cand.MatchScore,
			Summary:       cand.Summary,
			MatchedSkills: nonNilStrings(cand.MatchedSkills),
			MissingSkills: nonNilStrings(cand.MissingSkills),
			Status:        cand.Status,
			Notes:         cand.Notes,
			Rank:          cand.Rank,
		})
	}
	return out
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mapBatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNoResumes):
		return middleware.NewAppError(fiber.StatusBadRequest, msgNoResumes, nil, err)
	case errors.Is(err, usecase.ErrTooManyResumes):
		return middleware.NewAppError(fiber.StatusBadRequest, msgTooManyResumes, nil, err)
	case errors.Is(err, usecase.ErrMissingJobDescription):
		return middleware.NewAppError(fiber.StatusBadRequest, msgJobDescriptionRequired, nil, err)
	case errors.Is(err, usecase.ErrJobFetchFailed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, msgJobFetchFailed, nil, err)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidStatus, nil, err)
	case errors.Is(err, usecase.ErrBatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgBatchNotFound, nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgCandidateNotFound, nil, err)
	default:
		return mapCommonUsecaseError(err)
	}
}
