package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrMissingText           = fmt.Errorf("%w: missing resume or job description text", ErrInvalidInput)
	ErrNoResumes             = fmt.Errorf("%w: at least one resume file is required", ErrInvalidInput)
	ErrTooManyResumes        = fmt.Errorf("%w: too many resume files", ErrInvalidInput)
	ErrMissingJobDescription = fmt.Errorf("%w: job description is required", ErrInvalidInput)
	ErrJobFetchFailed        = fmt.Errorf("%w: job description could not be fetched", ErrInvalidInput)
	ErrInvalidStatus         = fmt.Errorf("%w: invalid status value", ErrInvalidInput)

	ErrBatchNotFound     = fmt.Errorf("%w: analysis batch", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("%w: candidate", ErrNotFound)

	ErrPersistenceDisabled = fmt.Errorf("%w: persistence is not configured", ErrUnavailable)
	ErrNotifierDisabled    = fmt.Errorf("%w: mail is not configured", ErrUnavailable)
)
