package handler

import (
	"net/http"
	"testing"
	"time"

	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/repository"
	"smart-resume-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() repository.JobBatch {
	batchID := uuid.New()
	return repository.JobBatch{
		ID:             batchID,
		JobTitle:       "Backend Engineer",
		JobDescription: "python sql docker",
		AnalysisDate:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Candidates: []repository.BatchCandidate{
			{ID: uuid.New(), BatchID: batchID, FileName: "a.pdf", MatchScore: 100, Status: repository.CandidateStatusApproved, Rank: 1},
			{ID: uuid.New(), BatchID: batchID, FileName: "b.pdf", MatchScore: 33, Status: repository.CandidateStatusPending, Rank: 2},
		},
	}
}

func TestJobs_GetBatch(t *testing.T) {
	b := sampleBatch()
	uc := &fakeBatchUsecase{batch: b}
	app := newTestApp(NewJobsHandler(uc))

	resp := doJSON(t, app, http.MethodGet, "/jobs/"+b.ID.String(), nil)
	var got dto.BatchResponse
	env := decodeEnvelope(t, resp, &got)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, b.ID.String(), got.ID)
	require.Len(t, got.RankedCandidates, 2)
	assert.Equal(t, "a.pdf", got.RankedCandidates[0].FileName)
	assert.Equal(t, []string{}, got.RankedCandidates[0].MatchedSkills)
}

func TestJobs_NotFound(t *testing.T) {
	uc := &fakeBatchUsecase{err: usecase.ErrBatchNotFound}
	app := newTestApp(NewJobsHandler(uc))

	resp := doJSON(t, app, http.MethodGet, "/jobs/"+uuid.NewString(), nil)
	env := decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, msgBatchNotFound, env.Message)

	resp = doJSON(t, app, http.MethodGet, "/jobs/not-a-uuid", nil)
	env = decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, msgBatchNotFound, env.Message)
}

func TestJobs_UpdateStatus(t *testing.T) {
	b := sampleBatch()
	uc := &fakeBatchUsecase{batch: b}
	app := newTestApp(NewJobsHandler(uc))

	path := "/jobs/" + b.ID.String() + "/candidates/" + b.Candidates[1].ID.String()
	resp := doJSON(t, app, http.MethodPut, path, dto.UpdateCandidateStatusRequest{Status: "Rejected"})
	env := decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "Rejected", uc.status)
}

func TestJobs_UpdateStatusErrors(t *testing.T) {
	b := sampleBatch()
	path := "/jobs/" + b.ID.String() + "/candidates/" + uuid.NewString()

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{usecase.ErrInvalidStatus, http.StatusBadRequest, msgInvalidStatus},
		{usecase.ErrCandidateNotFound, http.StatusNotFound, msgCandidateNotFound},
		{usecase.ErrPersistenceDisabled, http.StatusServiceUnavailable, msgPersistenceDisabled},
		{usecase.ErrInternal, http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		app := newTestApp(NewJobsHandler(&fakeBatchUsecase{err: tc.err}))
		resp := doJSON(t, app, http.MethodPut, path, dto.UpdateCandidateStatusRequest{Status: "Maybe"})
		env := decodeEnvelope(t, resp, nil)
		assert.Equal(t, tc.status, resp.StatusCode, tc.msg)
		assert.Equal(t, tc.msg, env.Message)
	}
}

func TestJobs_UpdateNotes(t *testing.T) {
	b := sampleBatch()
	uc := &fakeBatchUsecase{batch: b}
	app := newTestApp(NewJobsHandler(uc))

	path := "/jobs/" + b.ID.String() + "/candidates/" + b.Candidates[0].ID.String() + "/notes"
	resp := doJSON(t, app, http.MethodPut, path, dto.UpdateCandidateNotesRequest{Notes: "strong SQL"})
	env := decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "strong SQL", uc.notes)

	resp = doJSON(t, app, http.MethodPut, "/jobs/"+b.ID.String()+"/candidates/nope/notes", dto.UpdateCandidateNotesRequest{})
	env = decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, msgCandidateNotFound, env.Message)
}

func TestJobs_ListBatches(t *testing.T) {
	uc := &fakeBatchUsecase{list: []repository.JobBatchSummary{
		{ID: uuid.New(), JobTitle: "Newest", CandidateCount: 3, TopScore: 90},
	}}
	app := newTestApp(NewJobsHandler(uc))

	resp := doJSON(t, app, http.MethodGet, "/jobs?limit=5&offset=10", nil)
	var got []dto.BatchSummaryResponse
	decodeEnvelope(t, resp, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Newest", got[0].JobTitle)
	assert.Equal(t, 5, uc.limit)
	assert.Equal(t, 10, uc.offset)

	resp = doJSON(t, app, http.MethodGet, "/jobs?limit=abc", nil)
	decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobs_SaveBatch(t *testing.T) {
	uc := &fakeBatchUsecase{batch: sampleBatch()}
	app := newTestApp(NewJobsHandler(uc))

	resp := doJSON(t, app, http.MethodPost, "/jobs", dto.SaveBatchRequest{
		JobTitle:       "Backend Engineer",
		JobDescription: "python sql docker",
		RankedCandidates: []dto.SaveCandidateRequest{
			{FileName: "a.pdf", MatchScore: 100, Status: "Approved"},
		},
	})
	env := decodeEnvelope(t, resp, nil)
	assert.Equal(t, http.StatusCreated, env.Status)
	require.Len(t, uc.saveIn.Candidates, 1)
	assert.Equal(t, "Approved", uc.saveIn.Candidates[0].Status)

	resp = doJSON(t, app, http.MethodPost, "/jobs", dto.SaveBatchRequest{
		JobDescription:   "python",
		RankedCandidates: []dto.SaveCandidateRequest{{FileName: "a.pdf", MatchScore: 101}},
	})
	var fields []map[string]string
	env = decodeEnvelope(t, resp, &fields)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	require.NotEmpty(t, fields)
	assert.Equal(t, "matchScore", fields[0]["field"])
}
