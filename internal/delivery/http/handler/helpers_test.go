package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"testing"

	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/repository"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type router interface {
	RegisterRoutes(r fiber.Router)
}

func newTestApp(handlers ...router) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	for _, h := range handlers {
		h.RegisterRoutes(app)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, rd)
	require.NoError(t, err)
	if rd != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, data any) response.SemanticResponse {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return response.SemanticResponse{Status: env.Status, Message: env.Message}
}

type fakeBatchUsecase struct {
	rankIn  usecase.BatchInput
	rankRes usecase.BatchResult
	saveIn  usecase.SaveBatchInput
	batch   repository.JobBatch
	list    []repository.JobBatchSummary
	status  string
	notes   string
	limit   int
	offset  int
	err     error
}

func (f *fakeBatchUsecase) RankBatch(_ context.Context, in usecase.BatchInput) (usecase.BatchResult, error) {
	f.rankIn = in
	return f.rankRes, f.err
}

func (f *fakeBatchUsecase) SaveBatch(_ context.Context, in usecase.SaveBatchInput) (repository.JobBatch, error) {
	f.saveIn = in
	return f.batch, f.err
}

func (f *fakeBatchUsecase) ListBatches(_ context.Context, limit, offset int) ([]repository.JobBatchSummary, error) {
	f.limit, f.offset = limit, offset
	return f.list, f.err
}

func (f *fakeBatchUsecase) GetBatch(_ context.Context, _ uuid.UUID) (repository.JobBatch, error) {
	return f.batch, f.err
}

func (f *fakeBatchUsecase) UpdateCandidateStatus(_ context.Context, _, _ uuid.UUID, status string) (repository.JobBatch, error) {
	f.status = status
	return f.batch, f.err
}

func (f *fakeBatchUsecase) UpdateCandidateNotes(_ context.Context, _, _ uuid.UUID, notes string) (repository.JobBatch, error) {
	f.notes = notes
	return f.batch, f.err
}

type fakeAnalysisUsecase struct {
	saved usecase.AnalysisInput
	items []repository.Analysis
	err   error
}

func (f *fakeAnalysisUsecase) SaveAnalysis(_ context.Context, in usecase.AnalysisInput) (repository.Analysis, error) {
	f.saved = in
	if f.err != nil {
		return repository.Analysis{}, f.err
	}
	return repository.Analysis{ID: uuid.New(), ResumeFileName: in.ResumeFileName, MatchScore: in.MatchScore, Summary: in.Summary}, nil
}

func (f *fakeAnalysisUsecase) ListAnalyses(_ context.Context, _, _ int) ([]repository.Analysis, error) {
	return f.items, f.err
}

type fakeNotificationUsecase struct {
	got usecase.EmailInput
	err error
}

func (f *fakeNotificationUsecase) SendEmail(_ context.Context, in usecase.EmailInput) error {
	f.got = in
	return f.err
}
