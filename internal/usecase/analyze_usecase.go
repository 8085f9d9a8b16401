package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"smart-resume-match/internal/domain/matching"
)

type AnalyzeInput struct {
	ResumeText      string
	JDText          string
	ValidatedSkills []string
}

type VocabularyInfo struct {
	Phrases     []string
	Fingerprint string
}

type AnalyzeUsecase interface {
	Analyze(ctx context.Context, in AnalyzeInput) (matching.Result, error)
	Vocabulary(ctx context.Context) VocabularyInfo
}

type Analyzer struct {
	engine *matching.Engine
	logger *log.Logger
}

func NewAnalyzeUsecase(engine *matching.Engine, logger *log.Logger) *Analyzer {
	return &Analyzer{engine: engine, logger: logger}
}

// Analyze scores one resume against one job description. Blank texts are
// rejected before the engine runs.
func (u *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) (matching.Result, error) {
	if strings.TrimSpace(in.ResumeText) == "" || strings.TrimSpace(in.JDText) == "" {
		return matching.Result{}, ErrMissingText
	}
	if err := ctx.Err(); err != nil {
		return matching.Result{}, err
	}
	if u == nil || u.engine == nil {
		return matching.Result{}, ErrInternal
	}

	start := time.Now()
	res := u.engine.Analyze(in.ResumeText, in.JDText, in.ValidatedSkills)

	if u.logger != nil {
		u.logger.Printf(
			"analyze status=ok resume_len=%d jd_len=%d validated=%d score=%d matched=%d missing=%d duration=%s",
			len(in.ResumeText), len(in.JDText), len(in.ValidatedSkills), res.MatchScore, len(res.MatchedSkills), len(res.MissingSkills), time.Since(start),
		)
	}
	return res, nil
}

func (u *Analyzer) Vocabulary(_ context.Context) VocabularyInfo {
	if u == nil || u.engine == nil {
		return VocabularyInfo{Phrases: []string{}}
	}
	v := u.engine.Vocabulary()
	return VocabularyInfo{Phrases: v.Phrases(), Fingerprint: v.Fingerprint()}
}
