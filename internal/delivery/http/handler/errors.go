package handler

import (
	"errors"

	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgInvalidJSON            = "Invalid request body. Expected JSON."
	msgMissingTexts           = "Missing 'resume_text' or 'jd_text' in request body"
	msgNoResumes              = "At least one resume file is required."
	msgTooManyResumes         = "Too many resume files. The limit is 20."
	msgJobDescriptionRequired = "Job description is required."
	msgJobFetchFailed         = "Job description could not be fetched from the given URL."
	msgInvalidStatus          = "Invalid status value."
	msgBatchNotFound          = "Analysis batch not found."
	msgCandidateNotFound      = "Candidate not found in this batch."
	msgPersistenceDisabled    = "Storage is not configured."
	msgMailDisabled           = "Mail is not configured."
)

func mapCommonUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrPersistenceDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgPersistenceDisabled, nil, err)
	case errors.Is(err, usecase.ErrNotifierDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgMailDisabled, nil, err)
	case errors.Is(err, usecase.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
