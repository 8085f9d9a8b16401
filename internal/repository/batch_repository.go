package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart-resume-match/internal/database"

	"github.com/google/uuid"
)

var (
	ErrBatchNotFound     = errors.New("batch not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

const (
	CandidateStatusPending  = "Pending"
	CandidateStatusApproved = "Approved"
	CandidateStatusRejected = "Rejected"

	DefaultJobTitle = "Untitled Job Analysis"
)

// ValidCandidateStatus reports whether s is one of the stored review states.
func ValidCandidateStatus(s string) bool {
	switch s {
	case CandidateStatusPending, CandidateStatusApproved, CandidateStatusRejected:
		return true
	}
	return false
}

type BatchCandidate struct {
	ID            uuid.UUID
	BatchID       uuid.UUID
	FileName      string
	MatchScore    int
	Summary       string
	MatchedSkills []string
	MissingSkills []string
	Status        string
	Notes         string
	Rank          int
}

type JobBatch struct {
	ID             uuid.UUID
	JobTitle       string
	JobDescription string
	AnalysisDate   time.Time
	Candidates     []BatchCandidate
}

type JobBatchSummary struct {
	ID             uuid.UUID
	JobTitle       string
	AnalysisDate   time.Time
	CandidateCount int
	TopScore       int
}

type BatchRepository interface {
	CreateBatch(ctx context.Context, batch JobBatch) (JobBatch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]JobBatchSummary, error)
	GetBatch(ctx context.Context, id uuid.UUID) (JobBatch, error)
	UpdateCandidateStatus(ctx context.Context, batchID, candidateID uuid.UUID, status string) error
	UpdateCandidateNotes(ctx context.Context, batchID, candidateID uuid.UUID, notes string) error
	ListApprovedSkills(ctx context.Context) ([]string, error)
}

type PostgresBatchRepository struct {
	db database.DB
}

func NewPostgresBatchRepository(db database.DB) *PostgresBatchRepository {
	return &PostgresBatchRepository{db: db}
}

// CreateBatch stores the batch and its candidates in one transaction.
// IDs and timestamps missing from the input are filled in.
func (r *PostgresBatchRepository) CreateBatch(ctx context.Context, batch JobBatch) (JobBatch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if strings.TrimSpace(batch.JobTitle) == "" {
		batch.JobTitle = DefaultJobTitle
	}
	if batch.AnalysisDate.IsZero() {
		batch.AnalysisDate = time.Now().UTC()
	}

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO job_batches (id, job_title, job_description, analysis_date)
			 VALUES ($1, $2, $3, $4)`,
			batch.ID, batch.JobTitle, batch.JobDescription, batch.AnalysisDate,
		)
		if err != nil {
			return err
		}

		for i := range batch.Candidates {
			c := &batch.Candidates[i]
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			c.BatchID = batch.ID
			if c.Status == "" {
				c.Status = CandidateStatusPending
			}
			if c.Rank == 0 {
				c.Rank = i + 1
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO batch_candidates
				   (id, batch_id, file_name, match_score, summary, matched_skills, missing_skills, status, notes, rank)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				c.ID, c.BatchID, c.FileName, c.MatchScore, c.Summary,
				nonNil(c.MatchedSkills), nonNil(c.MissingSkills), c.Status, c.Notes, c.Rank,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return JobBatch{}, err
	}
	return batch, nil
}

func (r *PostgresBatchRepository) ListBatches(ctx context.Context, limit, offset int) ([]JobBatchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.job_title, b.analysis_date,
		        COUNT(c.id) AS candidate_count,
		        COALESCE(MAX(c.match_score), 0) AS top_score
		 FROM job_batches b
		 LEFT JOIN batch_candidates c ON c.batch_id = b.id
		 GROUP BY b.id, b.job_title, b.analysis_date
		 ORDER BY b.analysis_date DESC, b.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobBatchSummary, 0)
	for rows.Next() {
		var it JobBatchSummary
		if err := rows.Scan(&it.ID, &it.JobTitle, &it.AnalysisDate, &it.CandidateCount, &it.TopScore); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresBatchRepository) GetBatch(ctx context.Context, id uuid.UUID) (JobBatch, error) {
	var b JobBatch
	row := r.db.QueryRow(ctx,
		`SELECT id, job_title, job_description, analysis_date
		 FROM job_batches
		 WHERE id = $1`,
		id,
	)
	if err := row.Scan(&b.ID, &b.JobTitle, &b.JobDescription, &b.AnalysisDate); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return JobBatch{}, ErrBatchNotFound
		}
		return JobBatch{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, batch_id, file_name, match_score, summary, matched_skills, missing_skills, status, notes, rank
		 FROM batch_candidates
		 WHERE batch_id = $1
		 ORDER BY rank ASC, match_score DESC, file_name ASC`,
		id,
	)
	if err != nil {
		return JobBatch{}, err
	}
	defer rows.Close()

	b.Candidates = make([]BatchCandidate, 0)
	for rows.Next() {
		var c BatchCandidate
		if err := rows.Scan(&c.ID, &c.BatchID, &c.FileName, &c.MatchScore, &c.Summary, &c.MatchedSkills, &c.MissingSkills, &c.Status, &c.Notes, &c.Rank); err != nil {
			return JobBatch{}, err
		}
		c.MatchedSkills = nonNil(c.MatchedSkills)
		c.MissingSkills = nonNil(c.MissingSkills)
		b.Candidates = append(b.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return JobBatch{}, err
	}
	return b, nil
}

func (r *PostgresBatchRepository) UpdateCandidateStatus(ctx context.Context, batchID, candidateID uuid.UUID, status string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE batch_candidates SET status = $3 WHERE batch_id = $1 AND id = $2`,
		batchID, candidateID, status,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingTarget(ctx, batchID)
	}
	return nil
}

func (r *PostgresBatchRepository) UpdateCandidateNotes(ctx context.Context, batchID, candidateID uuid.UUID, notes string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE batch_candidates SET notes = $3 WHERE batch_id = $1 AND id = $2`,
		batchID, candidateID, notes,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingTarget(ctx, batchID)
	}
	return nil
}

// missingTarget tells apart an unknown batch from an unknown candidate
// after an update touched no rows.
func (r *PostgresBatchRepository) missingTarget(ctx context.Context, batchID uuid.UUID) error {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_batches WHERE id = $1)`, batchID)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrBatchNotFound
	}
	return ErrCandidateNotFound
}

// ListApprovedSkills returns the distinct matched skills of every approved
// candidate across all stored batches, sorted.
func (r *PostgresBatchRepository) ListApprovedSkills(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT skill
		 FROM batch_candidates c, UNNEST(c.matched_skills) AS skill
		 WHERE c.status = $1
		 ORDER BY skill`,
		CandidateStatusApproved,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
