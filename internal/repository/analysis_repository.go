package repository

import (
	"context"
	"time"

	"smart-resume-match/internal/database"

	"github.com/google/uuid"
)

type Analysis struct {
	ID             uuid.UUID
	ResumeFileName string
	MatchScore     int
	Summary        string
	MatchedSkills  []string
	MissingSkills  []string
	AnalysisDate   time.Time
}

type AnalysisRepository interface {
	CreateAnalysis(ctx context.Context, a Analysis) (Analysis, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]Analysis, error)
}

type PostgresAnalysisRepository struct {
	db database.DB
}

func NewPostgresAnalysisRepository(db database.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

func (r *PostgresAnalysisRepository) CreateAnalysis(ctx context.Context, a Analysis) (Analysis, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AnalysisDate.IsZero() {
		a.AnalysisDate = time.Now().UTC()
	}
	a.MatchedSkills = nonNil(a.MatchedSkills)
	a.MissingSkills = nonNil(a.MissingSkills)

	_, err := r.db.Exec(ctx,
		`INSERT INTO analyses (id, resume_file_name, match_score, summary, matched_skills, missing_skills, analysis_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ResumeFileName, a.MatchScore, a.Summary, a.MatchedSkills, a.MissingSkills, a.AnalysisDate,
	)
	if err != nil {
		return Analysis{}, err
	}
	return a, nil
}

func (r *PostgresAnalysisRepository) ListAnalyses(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, resume_file_name, match_score, summary, matched_skills, missing_skills, analysis_date
		 FROM analyses
		 ORDER BY analysis_date DESC, id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Analysis, 0)
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.ResumeFileName, &a.MatchScore, &a.Summary, &a.MatchedSkills, &a.MissingSkills, &a.AnalysisDate); err != nil {
			return nil, err
		}
		a.MatchedSkills = nonNil(a.MatchedSkills)
		a.MissingSkills = nonNil(a.MissingSkills)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
