package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smart-resume-match/internal/domain/matching"
	"smart-resume-match/internal/events"
	"smart-resume-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJD = "We need Python, SQL and Docker experience."

func newTestBatch(t *testing.T, repo repository.BatchRepository, cache SkillCache, fetcher JobDescriptionFetcher, pub events.Publisher, docs fakeDocs) *Batch {
	t.Helper()
	return NewBatchUsecase(BatchDeps{
		Engine:    matching.NewEngine(matching.MustVocabulary(matching.DefaultSkills)),
		Documents: docs,
		Fetcher:   fetcher,
		Batches:   repo,
		Cache:     cache,
		Publisher: pub,
	})
}

func files(names ...string) []ResumeFile {
	out := make([]ResumeFile, 0, len(names))
	for _, n := range names {
		out = append(out, ResumeFile{Name: n, ContentType: "text/plain"})
	}
	return out
}

func TestRankBatch_InputValidation(t *testing.T) {
	uc := newTestBatch(t, nil, nil, nil, nil, fakeDocs{})

	_, err := uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD})
	assert.ErrorIs(t, err, ErrNoResumes)
	assert.ErrorIs(t, err, ErrInvalidInput)

	many := make([]ResumeFile, MaxBatchFiles+1)
	_, err = uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: many})
	assert.ErrorIs(t, err, ErrTooManyResumes)

	_, err = uc.RankBatch(context.Background(), BatchInput{JobDescription: "   ", Files: files("a.txt")})
	assert.ErrorIs(t, err, ErrMissingJobDescription)
}

func TestRankBatch_RanksBestFirstAndSkipsUnreadable(t *testing.T) {
	docs := fakeDocs{
		texts: map[string]string{
			"alice.txt": "Python and SQL",
			"bob.txt":   "Python, SQL, Docker",
			"carol.txt": "Python",
			"dave.txt":  "Python",
			"empty.txt": "   ",
		},
		errs: map[string]error{"broken.pdf": errBoom},
	}
	pub := &recordingPublisher{}
	uc := newTestBatch(t, nil, nil, nil, pub, docs)

	res, err := uc.RankBatch(context.Background(), BatchInput{
		JobDescription: testJD,
		Files:          files("dave.txt", "alice.txt", "broken.pdf", "carol.txt", "empty.txt", "bob.txt"),
	})
	require.NoError(t, err)

	require.Len(t, res.Candidates, 4)
	assert.Equal(t, "bob.txt", res.Candidates[0].FileName)
	assert.Equal(t, 100, res.Candidates[0].MatchScore)
	assert.Equal(t, "alice.txt", res.Candidates[1].FileName)
	assert.Equal(t, 67, res.Candidates[1].MatchScore)
	assert.Equal(t, "carol.txt", res.Candidates[2].FileName)
	assert.Equal(t, "dave.txt", res.Candidates[3].FileName)
	assert.Equal(t, repository.CandidateStatusPending, res.Candidates[0].Status)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "broken.pdf", res.Skipped[0].FileName)
	assert.Equal(t, "empty.txt", res.Skipped[1].FileName)

	assert.Equal(t, repository.DefaultJobTitle, res.JobTitle)
	assert.False(t, res.Persisted)
	assert.Equal(t, uuid.Nil, res.BatchID)
	assert.Equal(t, []string{events.TypeBatchRanked}, pub.types())
}

func TestRankBatch_FetchesJobDescriptionFromURL(t *testing.T) {
	fetcher := &fakeFetcher{text: "Looking for a Docker and Python engineer"}
	uc := newTestBatch(t, nil, nil, fetcher, nil, fakeDocs{texts: map[string]string{"a.txt": "python"}})

	res, err := uc.RankBatch(context.Background(), BatchInput{
		JobURL: "https://jobs.example.com/1",
		Files:  files("a.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 50, res.Candidates[0].MatchScore)
	assert.Equal(t, []string{"docker"}, res.Candidates[0].MissingSkills)
}

func TestRankBatch_FetchFailure(t *testing.T) {
	uc := newTestBatch(t, nil, nil, &fakeFetcher{err: errBoom}, nil, fakeDocs{})
	_, err := uc.RankBatch(context.Background(), BatchInput{JobURL: "https://x", Files: files("a.txt")})
	assert.ErrorIs(t, err, ErrJobFetchFailed)

	uc = newTestBatch(t, nil, nil, nil, nil, fakeDocs{})
	_, err = uc.RankBatch(context.Background(), BatchInput{JobURL: "https://x", Files: files("a.txt")})
	assert.ErrorIs(t, err, ErrJobFetchFailed)
}

func TestRankBatch_PersistsAndUsesApprovedSkills(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.approved = []string{"SQL"}
	cache := newFakeCache()
	uc := newTestBatch(t, repo, cache, nil, nil, fakeDocs{texts: map[string]string{"a.txt": "python sql"}})

	res, err := uc.RankBatch(context.Background(), BatchInput{
		JobTitle:        "Data Engineer",
		JobDescription:  testJD,
		Files:           files("a.txt"),
		ValidatedSkills: []string{"Python"},
	})
	require.NoError(t, err)

	assert.True(t, res.Persisted)
	assert.NotEqual(t, uuid.Nil, res.BatchID)
	assert.Equal(t, []string{"python", "sql"}, res.ValidatedSkills)
	require.Len(t, res.Candidates, 1)
	// 67 base + 2 validated matches
	assert.Equal(t, 77, res.Candidates[0].MatchScore)
	assert.NotEqual(t, uuid.Nil, res.Candidates[0].ID)

	stored, err := uc.GetBatch(context.Background(), res.BatchID)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", stored.JobTitle)
	assert.Equal(t, 1, stored.Candidates[0].Rank)

	_, err = uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: files("a.txt")})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.approvedCalls, "second batch should read the approved skills from cache")
}

func TestRankBatch_PersistFailure(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.createErr = errBoom
	uc := newTestBatch(t, repo, nil, nil, nil, fakeDocs{texts: map[string]string{"a.txt": "python"}})

	_, err := uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: files("a.txt")})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRankBatch_ManyFilesKeepsDeterministicOrder(t *testing.T) {
	texts := map[string]string{}
	names := make([]string, 0, MaxBatchFiles)
	for i := 0; i < MaxBatchFiles; i++ {
		n := fmt.Sprintf("r%02d.txt", i)
		names = append(names, n)
		texts[n] = "python"
	}
	uc := newTestBatch(t, nil, nil, nil, nil, fakeDocs{texts: texts})

	res, err := uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: files(names...)})
	require.NoError(t, err)
	require.Len(t, res.Candidates, MaxBatchFiles)
	for i, c := range res.Candidates {
		assert.Equal(t, names[i], c.FileName)
	}
}

func TestRankBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := newTestBatch(t, nil, nil, nil, nil, fakeDocs{texts: map[string]string{"a.txt": "python"}})

	_, err := uc.RankBatch(ctx, BatchInput{JobDescription: testJD, Files: files("a.txt")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUpdateCandidateStatus(t *testing.T) {
	repo := newFakeBatchRepo()
	cache := newFakeCache()
	pub := &recordingPublisher{}
	uc := newTestBatch(t, repo, cache, nil, pub, fakeDocs{texts: map[string]string{"a.txt": "python"}})

	res, err := uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: files("a.txt")})
	require.NoError(t, err)
	candID := res.Candidates[0].ID

	_, err = uc.UpdateCandidateStatus(context.Background(), res.BatchID, candID, "Maybe")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	b, err := uc.UpdateCandidateStatus(context.Background(), res.BatchID, candID, repository.CandidateStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, repository.CandidateStatusApproved, b.Candidates[0].Status)
	assert.Contains(t, cache.deletes, ValidatedSkillsCacheKey)
	assert.Contains(t, pub.types(), events.TypeCandidateStatusChanged)

	_, err = uc.UpdateCandidateStatus(context.Background(), uuid.New(), candID, repository.CandidateStatusRejected)
	assert.ErrorIs(t, err, ErrBatchNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uc.UpdateCandidateStatus(context.Background(), res.BatchID, uuid.New(), repository.CandidateStatusRejected)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestUpdateCandidateNotes(t *testing.T) {
	repo := newFakeBatchRepo()
	uc := newTestBatch(t, repo, nil, nil, nil, fakeDocs{texts: map[string]string{"a.txt": "python"}})

	res, err := uc.RankBatch(context.Background(), BatchInput{JobDescription: testJD, Files: files("a.txt")})
	require.NoError(t, err)

	b, err := uc.UpdateCandidateNotes(context.Background(), res.BatchID, res.Candidates[0].ID, "call back on Monday")
	require.NoError(t, err)
	assert.Equal(t, "call back on Monday", b.Candidates[0].Notes)
}

func TestBatch_WithoutPersistence(t *testing.T) {
	uc := newTestBatch(t, nil, nil, nil, nil, fakeDocs{})

	_, err := uc.ListBatches(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = uc.GetBatch(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, err = uc.UpdateCandidateNotes(context.Background(), uuid.New(), uuid.New(), "x")
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, err = uc.SaveBatch(context.Background(), SaveBatchInput{JobDescription: testJD})
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
}

func TestSaveBatch(t *testing.T) {
	repo := newFakeBatchRepo()
	cache := newFakeCache()
	uc := newTestBatch(t, repo, cache, nil, nil, fakeDocs{})

	_, err := uc.SaveBatch(context.Background(), SaveBatchInput{JobDescription: " "})
	assert.ErrorIs(t, err, ErrMissingJobDescription)

	_, err = uc.SaveBatch(context.Background(), SaveBatchInput{
		JobDescription: testJD,
		Candidates:     []RankedCandidate{{FileName: "a.pdf", MatchScore: 101}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	b, err := uc.SaveBatch(context.Background(), SaveBatchInput{
		JobDescription: testJD,
		Candidates: []RankedCandidate{
			{FileName: "low.pdf", MatchScore: 10},
			{FileName: "high.pdf", MatchScore: 90, Status: repository.CandidateStatusApproved},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultJobTitle, b.JobTitle)
	require.Len(t, b.Candidates, 2)
	assert.Equal(t, "high.pdf", b.Candidates[0].FileName)
	assert.Equal(t, repository.CandidateStatusPending, b.Candidates[1].Status)
	assert.Contains(t, cache.deletes, ValidatedSkillsCacheKey)
}

func TestListBatches_Limits(t *testing.T) {
	uc := newTestBatch(t, newFakeBatchRepo(), nil, nil, nil, fakeDocs{})

	_, err := uc.ListBatches(context.Background(), 101, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	items, err := uc.ListBatches(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}
