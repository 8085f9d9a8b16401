package dto

import "time"

type CandidateResponse struct {
	ID            string   `json:"id,omitempty"`
	FileName      string   `json:"fileName"`
	MatchScore    int      `json:"matchScore"`
	Summary       string   `json:"summary"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Status        string   `json:"status"`
	Notes         string   `json:"notes"`
	Rank          int      `json:"rank,omitempty"`
}

type SkippedFileResponse struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// MatchBatchResponse is returned by POST /api/v1/match. BatchID is empty
// when persistence is not configured.
type MatchBatchResponse struct {
	BatchID          string                `json:"batchId,omitempty"`
	Persisted        bool                  `json:"persisted"`
	JobTitle         string                `json:"jobTitle"`
	AnalysisDate     time.Time             `json:"analysisDate"`
	ValidatedSkills  []string              `json:"validatedSkills"`
	RankedCandidates []CandidateResponse   `json:"rankedCandidates"`
	Skipped          []SkippedFileResponse `json:"skipped"`
}

type BatchResponse struct {
	ID               string              `json:"id"`
	JobTitle         string              `json:"jobTitle"`
	JobDescription   string              `json:"jobDescription"`
	AnalysisDate     time.Time           `json:"analysisDate"`
	RankedCandidates []CandidateResponse `json:"rankedCandidates"`
}

type BatchSummaryResponse struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"jobTitle"`
	AnalysisDate   time.Time `json:"analysisDate"`
	CandidateCount int       `json:"candidateCount"`
	TopScore       int       `json:"topScore"`
}

type SaveCandidateRequest struct {
	FileName      string   `json:"fileName" validate:"notblank"`
	MatchScore    int      `json:"matchScore" validate:"min=0,max=100"`
	Summary       string   `json:"summary"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Status        string   `json:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
	Notes         string   `json:"notes" validate:"max=10000"`
}

// SaveBatchRequest is the body of POST /api/v1/jobs.
type SaveBatchRequest struct {
	JobTitle         string                 `json:"jobTitle"`
	JobDescription   string                 `json:"jobDescription" validate:"notblank"`
	RankedCandidates []SaveCandidateRequest `json:"rankedCandidates" validate:"dive"`
}

type UpdateCandidateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateCandidateNotesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}
