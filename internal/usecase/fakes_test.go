package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"smart-resume-match/internal/events"
	"smart-resume-match/internal/repository"

	"github.com/google/uuid"
)

type fakeDocs struct {
	texts map[string]string
	errs  map[string]error
}

func (f fakeDocs) ExtractText(filename, _ string, data []byte) (string, error) {
	if err, ok := f.errs[filename]; ok {
		return "", err
	}
	if t, ok := f.texts[filename]; ok {
		return t, nil
	}
	return string(data), nil
}

type fakeFetcher struct {
	text  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes = append(c.deletes, key)
	return nil
}

type fakeBatchRepo struct {
	mu            sync.Mutex
	batches       map[uuid.UUID]repository.JobBatch
	approved      []string
	approvedCalls int
	createErr     error
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[uuid.UUID]repository.JobBatch{}}
}

func (r *fakeBatchRepo) CreateBatch(_ context.Context, b repository.JobBatch) (repository.JobBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return repository.JobBatch{}, r.createErr
	}
	b.ID = uuid.New()
	for i := range b.Candidates {
		b.Candidates[i].ID = uuid.New()
		b.Candidates[i].BatchID = b.ID
	}
	r.batches[b.ID] = b
	return b, nil
}

func (r *fakeBatchRepo) ListBatches(context.Context, int, int) ([]repository.JobBatchSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.JobBatchSummary, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, repository.JobBatchSummary{ID: b.ID, JobTitle: b.JobTitle, CandidateCount: len(b.Candidates)})
	}
	return out, nil
}

func (r *fakeBatchRepo) GetBatch(_ context.Context, id uuid.UUID) (repository.JobBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return repository.JobBatch{}, repository.ErrBatchNotFound
	}
	return b, nil
}

func (r *fakeBatchRepo) update(batchID, candidateID uuid.UUID, fn func(c *repository.BatchCandidate)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return repository.ErrBatchNotFound
	}
	for i := range b.Candidates {
		if b.Candidates[i].ID == candidateID {
			fn(&b.Candidates[i])
			return nil
		}
	}
	return repository.ErrCandidateNotFound
}

func (r *fakeBatchRepo) UpdateCandidateStatus(_ context.Context, batchID, candidateID uuid.UUID, status string) error {
	return r.update(batchID, candidateID, func(c *repository.BatchCandidate) { c.Status = status })
}

func (r *fakeBatchRepo) UpdateCandidateNotes(_ context.Context, batchID, candidateID uuid.UUID, notes string) error {
	return r.update(batchID, candidateID, func(c *repository.BatchCandidate) { c.Notes = notes })
}

func (r *fakeBatchRepo) ListApprovedSkills(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvedCalls++
	return r.approved, nil
}

type fakeAnalysisRepo struct {
	saved []repository.Analysis
	err   error
}

func (r *fakeAnalysisRepo) CreateAnalysis(_ context.Context, a repository.Analysis) (repository.Analysis, error) {
	if r.err != nil {
		return repository.Analysis{}, r.err
	}
	a.ID = uuid.New()
	a.AnalysisDate = time.Now().UTC()
	r.saved = append(r.saved, a)
	return a, nil
}

func (r *fakeAnalysisRepo) ListAnalyses(context.Context, int, int) ([]repository.Analysis, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]repository.Analysis, 0, len(r.saved))
	for i := len(r.saved) - 1; i >= 0; i-- {
		out = append(out, r.saved[i])
	}
	return out, nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.got))
	for _, e := range p.got {
		out = append(out, e.Type)
	}
	return out
}

type fakeNotifier struct {
	err       error
	recipient string
	subject   string
	body      string
}

func (n *fakeNotifier) Send(_ context.Context, recipient, subject, htmlBody string) error {
	n.recipient, n.subject, n.body = recipient, subject, htmlBody
	return n.err
}

var errBoom = errors.New("boom")
