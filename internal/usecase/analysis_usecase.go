package usecase

import (
	"context"
	"log"
	"strings"

	"smart-resume-match/internal/domain/matching"
	"smart-resume-match/internal/events"
	"smart-resume-match/internal/repository"
)

type AnalysisInput struct {
	ResumeFileName string
	MatchScore     int
	Summary        string
	MatchedSkills  []string
	MissingSkills  []string
}

type AnalysisUsecase interface {
	SaveAnalysis(ctx context.Context, in AnalysisInput) (repository.Analysis, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]repository.Analysis, error)
}

type AnalysisHistory struct {
	analyses  repository.AnalysisRepository
	publisher events.Publisher
	logger    *log.Logger
}

func NewAnalysisUsecase(analyses repository.AnalysisRepository, publisher events.Publisher, logger *log.Logger) *AnalysisHistory {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AnalysisHistory{analyses: analyses, publisher: publisher, logger: logger}
}

func (u *AnalysisHistory) SaveAnalysis(ctx context.Context, in AnalysisInput) (repository.Analysis, error) {
	name := strings.TrimSpace(in.ResumeFileName)
	if name == "" || in.MatchScore < 0 || in.MatchScore > matching.MaxScore {
		return repository.Analysis{}, ErrInvalidInput
	}
	if u.analyses == nil {
		return repository.Analysis{}, ErrPersistenceDisabled
	}

	a, err := u.analyses.CreateAnalysis(ctx, repository.Analysis{
		ResumeFileName: name,
		MatchScore:     in.MatchScore,
		Summary:        in.Summary,
		MatchedSkills:  in.MatchedSkills,
		MissingSkills:  in.MissingSkills,
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("analysis status=error stage=save err=%v", err)
		}
		return repository.Analysis{}, ErrInternal
	}

	if err := u.publisher.Publish(ctx, events.New(events.TypeAnalysisSaved, map[string]any{
		"id":         a.ID.String(),
		"fileName":   a.ResumeFileName,
		"matchScore": a.MatchScore,
	})); err != nil && u.logger != nil {
		u.logger.Printf("events status=error type=%s err=%v", events.TypeAnalysisSaved, err)
	}
	return a, nil
}

// ListAnalyses returns stored analyses, newest first.
func (u *AnalysisHistory) ListAnalyses(ctx context.Context, limit, offset int) ([]repository.Analysis, error) {
	if u.analyses == nil {
		return nil, ErrPersistenceDisabled
	}
	if limit == 0 {
		limit = 50
	}
	if limit < 0 || limit > 200 || offset < 0 {
		return nil, ErrInvalidInput
	}

	items, err := u.analyses.ListAnalyses(ctx, limit, offset)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("analysis status=error stage=list err=%v", err)
		}
		return nil, ErrInternal
	}
	return items, nil
}
