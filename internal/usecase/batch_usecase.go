package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"smart-resume-match/internal/domain/matching"
	"smart-resume-match/internal/events"
	"smart-resume-match/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MaxBatchFiles = 20

	// ValidatedSkillsCacheKey holds the approved-skill union.
	ValidatedSkillsCacheKey = "skills:validated"

	maxNotesLength   = 10000
	extractWorkers   = 4
	defaultBatchPage = 20
)

type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type BatchInput struct {
	JobTitle        string
	JobDescription  string
	JobURL          string
	Files           []ResumeFile
	ValidatedSkills []string
}

type RankedCandidate struct {
	ID            uuid.UUID
	FileName      string
	MatchScore    int
	Summary       string
	MatchedSkills []string
	MissingSkills []string
	Status        string
	Notes         string
}

type SkippedFile struct {
	FileName string
	Reason   string
}

type BatchResult struct {
	BatchID         uuid.UUID
	Persisted       bool
	JobTitle        string
	JobDescription  string
	AnalysisDate    time.Time
	ValidatedSkills []string
	Candidates      []RankedCandidate
	Skipped         []SkippedFile
}

type SaveBatchInput struct {
	JobTitle       string
	JobDescription string
	Candidates     []RankedCandidate
}

type BatchUsecase interface {
	RankBatch(ctx context.Context, in BatchInput) (BatchResult, error)
	SaveBatch(ctx context.Context, in SaveBatchInput) (repository.JobBatch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]repository.JobBatchSummary, error)
	GetBatch(ctx context.Context, id uuid.UUID) (repository.JobBatch, error)
	UpdateCandidateStatus(ctx context.Context, batchID, candidateID uuid.UUID, status string) (repository.JobBatch, error)
	UpdateCandidateNotes(ctx context.Context, batchID, candidateID uuid.UUID, notes string) (repository.JobBatch, error)
}

type TextExtractor interface {
	ExtractText(filename, contentType string, data []byte) (string, error)
}

type JobDescriptionFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type SkillCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type BatchDeps struct {
	Engine    *matching.Engine
	Documents TextExtractor
	Fetcher   JobDescriptionFetcher
	Batches   repository.BatchRepository
	Cache     SkillCache
	CacheTTL  time.Duration
	Publisher events.Publisher
	Logger    *log.Logger
}

type Batch struct {
	engine    *matching.Engine
	documents TextExtractor
	fetcher   JobDescriptionFetcher
	batches   repository.BatchRepository
	cache     SkillCache
	cacheTTL  time.Duration
	publisher events.Publisher
	logger    *log.Logger
}

func NewBatchUsecase(deps BatchDeps) *Batch {
	pub := deps.Publisher
	if pub == nil {
		pub = events.Nop{}
	}
	return &Batch{
		engine:    deps.Engine,
		documents: deps.Documents,
		fetcher:   deps.Fetcher,
		batches:   deps.Batches,
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
		publisher: pub,
		logger:    deps.Logger,
	}
}

// RankBatch scores every resume file against one job description and
// returns them best first. Files that cannot be read are skipped.
func (u *Batch) RankBatch(ctx context.Context, in BatchInput) (BatchResult, error) {
	if len(in.Files) == 0 {
		return BatchResult{}, ErrNoResumes
	}
	if len(in.Files) > MaxBatchFiles {
		return BatchResult{}, ErrTooManyResumes
	}
	if u.engine == nil || u.documents == nil {
		return BatchResult{}, ErrInternal
	}

	start := time.Now()

	jd, err := u.resolveJobDescription(ctx, in)
	if err != nil {
		return BatchResult{}, err
	}

	validated := u.validatedSkills(ctx, in.ValidatedSkills)

	slots := make([]*RankedCandidate, len(in.Files))
	skipped := make([]*SkippedFile, len(in.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)
	for i, f := range in.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := u.documents.ExtractText(f.Name, f.ContentType, f.Data)
			if err != nil {
				u.logf("batch file=%q status=skipped reason=extract_failed err=%v", f.Name, err)
				skipped[i] = &SkippedFile{FileName: f.Name, Reason: "could not read file"}
				return nil
			}
			if strings.TrimSpace(text) == "" {
				u.logf("batch file=%q status=skipped reason=no_text", f.Name)
				skipped[i] = &SkippedFile{FileName: f.Name, Reason: "no text extracted"}
				return nil
			}

			res := u.engine.Analyze(text, jd, validated)
			slots[i] = &RankedCandidate{
				FileName:      f.Name,
				MatchScore:    res.MatchScore,
				Summary:       res.Summary,
				MatchedSkills: res.MatchedSkills,
				MissingSkills: res.MissingSkills,
				Status:        repository.CandidateStatusPending,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	out := BatchResult{
		JobTitle:        jobTitleOrDefault(in.JobTitle),
		JobDescription:  jd,
		AnalysisDate:    time.Now().UTC(),
		ValidatedSkills: validated,
		Candidates:      make([]RankedCandidate, 0, len(in.Files)),
		Skipped:         make([]SkippedFile, 0),
	}
	for i := range in.Files {
		if slots[i] != nil {
			out.Candidates = append(out.Candidates, *slots[i])
		}
		if skipped[i] != nil {
			out.Skipped = append(out.Skipped, *skipped[i])
		}
	}
	sortCandidates(out.Candidates)

	if u.batches != nil && len(out.Candidates) > 0 {
		stored, err := u.batches.CreateBatch(ctx, toJobBatch(out.JobTitle, jd, out.AnalysisDate, out.Candidates))
		if err != nil {
			u.logf("batch status=error stage=persist err=%v", err)
			return BatchResult{}, ErrInternal
		}
		out.BatchID = stored.ID
		out.Persisted = true
		for i := range out.Candidates {
			out.Candidates[i].ID = stored.Candidates[i].ID
		}
	}

	u.publish(ctx, events.New(events.TypeBatchRanked, batchRankedData(out)))

	u.logf(
		"batch status=ok files=%d ranked=%d skipped=%d validated=%d persisted=%t duration=%s",
		len(in.Files), len(out.Candidates), len(out.Skipped), len(validated), out.Persisted, time.Since(start),
	)
	return out, nil
}

// SaveBatch stores an already ranked list.
func (u *Batch) SaveBatch(ctx context.Context, in SaveBatchInput) (repository.JobBatch, error) {
	if u.batches == nil {
		return repository.JobBatch{}, ErrPersistenceDisabled
	}
	jd := strings.TrimSpace(in.JobDescription)
	if jd == "" {
		return repository.JobBatch{}, ErrMissingJobDescription
	}
	for _, c := range in.Candidates {
		if strings.TrimSpace(c.FileName) == "" || c.MatchScore < 0 || c.MatchScore > matching.MaxScore {
			return repository.JobBatch{}, ErrInvalidInput
		}
		if c.Status != "" && !repository.ValidCandidateStatus(c.Status) {
			return repository.JobBatch{}, ErrInvalidStatus
		}
	}

	cands := append([]RankedCandidate(nil), in.Candidates...)
	sortCandidates(cands)

	stored, err := u.batches.CreateBatch(ctx, toJobBatch(jobTitleOrDefault(in.JobTitle), jd, time.Now().UTC(), cands))
	if err != nil {
		u.logf("batch status=error stage=save err=%v", err)
		return repository.JobBatch{}, ErrInternal
	}
	if hasApproved(cands) {
		u.invalidateValidatedSkills(ctx)
	}
	return stored, nil
}

func (u *Batch) ListBatches(ctx context.Context, limit, offset int) ([]repository.JobBatchSummary, error) {
	if u.batches == nil {
		return nil, ErrPersistenceDisabled
	}
	if limit == 0 {
		limit = defaultBatchPage
	}
	if limit < 0 || limit > 100 || offset < 0 {
		return nil, ErrInvalidInput
	}

	items, err := u.batches.ListBatches(ctx, limit, offset)
	if err != nil {
		u.logf("batch status=error stage=list err=%v", err)
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Batch) GetBatch(ctx context.Context, id uuid.UUID) (repository.JobBatch, error) {
	if u.batches == nil {
		return repository.JobBatch{}, ErrPersistenceDisabled
	}
	if id == uuid.Nil {
		return repository.JobBatch{}, ErrBatchNotFound
	}
	b, err := u.batches.GetBatch(ctx, id)
	if err != nil {
		return repository.JobBatch{}, u.mapRepoError("get", err)
	}
	return b, nil
}

// UpdateCandidateStatus records a review decision. Approvals feed the
// validated skill bonus of later batches, so the cached union is dropped.
func (u *Batch) UpdateCandidateStatus(ctx context.Context, batchID, candidateID uuid.UUID, status string) (repository.JobBatch, error) {
	status = strings.TrimSpace(status)
	if !repository.ValidCandidateStatus(status) {
		return repository.JobBatch{}, ErrInvalidStatus
	}
	if u.batches == nil {
		return repository.JobBatch{}, ErrPersistenceDisabled
	}

	if err := u.batches.UpdateCandidateStatus(ctx, batchID, candidateID, status); err != nil {
		return repository.JobBatch{}, u.mapRepoError("update_status", err)
	}
	u.invalidateValidatedSkills(ctx)

	u.publish(ctx, events.New(events.TypeCandidateStatusChanged, map[string]string{
		"batchId":     batchID.String(),
		"candidateId": candidateID.String(),
		"status":      status,
	}))

	return u.GetBatch(ctx, batchID)
}

func (u *Batch) UpdateCandidateNotes(ctx context.Context, batchID, candidateID uuid.UUID, notes string) (repository.JobBatch, error) {
	if len(notes) > maxNotesLength {
		return repository.JobBatch{}, ErrInvalidInput
	}
	if u.batches == nil {
		return repository.JobBatch{}, ErrPersistenceDisabled
	}

	if err := u.batches.UpdateCandidateNotes(ctx, batchID, candidateID, notes); err != nil {
		return repository.JobBatch{}, u.mapRepoError("update_notes", err)
	}

	u.publish(ctx, events.New(events.TypeCandidateNotesUpdated, map[string]string{
		"batchId":     batchID.String(),
		"candidateId": candidateID.String(),
	}))

	return u.GetBatch(ctx, batchID)
}

func (u *Batch) resolveJobDescription(ctx context.Context, in BatchInput) (string, error) {
	jd := strings.TrimSpace(in.JobDescription)
	if jd != "" {
		return jd, nil
	}

	url := strings.TrimSpace(in.JobURL)
	if url == "" {
		return "", ErrMissingJobDescription
	}
	if u.fetcher == nil {
		return "", ErrJobFetchFailed
	}

	text, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		u.logf("batch status=error stage=fetch url=%q err=%v", url, err)
		return "", ErrJobFetchFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrJobFetchFailed
	}
	return text, nil
}

// validatedSkills merges the caller's list with the matched skills of
// every approved candidate. Lookup failures degrade to the caller's list.
func (u *Batch) validatedSkills(ctx context.Context, requested []string) []string {
	set := map[string]struct{}{}
	for _, s := range requested {
		if n := matching.NormalizePhrase(s); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, s := range u.approvedSkills(ctx) {
		if n := matching.NormalizePhrase(s); n != "" {
			set[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (u *Batch) approvedSkills(ctx context.Context) []string {
	if u.batches == nil {
		return nil
	}

	if u.cache != nil {
		var cached []string
		hit, err := u.cache.GetJSON(ctx, ValidatedSkillsCacheKey, &cached)
		if err == nil && hit {
			return cached
		}
	}

	skills, err := u.batches.ListApprovedSkills(ctx)
	if err != nil {
		u.logf("batch status=warn stage=validated_skills err=%v", err)
		return nil
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, ValidatedSkillsCacheKey, skills, u.cacheTTL); err != nil {
			u.logf("batch status=warn stage=cache_set key=%s err=%v", ValidatedSkillsCacheKey, err)
		}
	}
	return skills
}

func (u *Batch) invalidateValidatedSkills(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, ValidatedSkillsCacheKey); err != nil {
		u.logf("batch status=warn stage=cache_delete key=%s err=%v", ValidatedSkillsCacheKey, err)
	}
}

func (u *Batch) mapRepoError(stage string, err error) error {
	switch {
	case errors.Is(err, repository.ErrBatchNotFound):
		return ErrBatchNotFound
	case errors.Is(err, repository.ErrCandidateNotFound):
		return ErrCandidateNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	u.logf("batch status=error stage=%s err=%v", stage, err)
	return ErrInternal
}

func (u *Batch) publish(ctx context.Context, evt events.Event) {
	if err := u.publisher.Publish(ctx, evt); err != nil {
		u.logf("events status=error type=%s err=%v", evt.Type, err)
	}
}

func (u *Batch) logf(format string, args ...any) {
	if u != nil && u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func sortCandidates(c []RankedCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].MatchScore != c[j].MatchScore {
			return c[i].MatchScore > c[j].MatchScore
		}
		return c[i].FileName < c[j].FileName
	})
}

func jobTitleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return repository.DefaultJobTitle
	}
	return title
}

func toJobBatch(title, jd string, at time.Time, cands []RankedCandidate) repository.JobBatch {
	b := repository.JobBatch{
		JobTitle:       title,
		JobDescription: jd,
		AnalysisDate:   at,
		Candidates:     make([]repository.BatchCandidate, 0, len(cands)),
	}
	for i, c := range cands {
		status := c.Status
		if status == "" {
			status = repository.CandidateStatusPending
		}
		b.Candidates = append(b.Candidates, repository.BatchCandidate{
			FileName:      c.FileName,
			MatchScore:    c.MatchScore,
			Summary:       c.Summary,
			MatchedSkills: c.MatchedSkills,
			MissingSkills: c.MissingSkills,
			Status:        status,
			Notes:         c.Notes,
			Rank:          i + 1,
		})
	}
	return b
}

func hasApproved(cands []RankedCandidate) bool {
	for _, c := range cands {
		if c.Status == repository.CandidateStatusApproved {
			return true
		}
	}
	return false
}

func batchRankedData(r BatchResult) map[string]any {
	top := 0
	if len(r.Candidates) > 0 {
		top = r.Candidates[0].MatchScore
	}
	data := map[string]any{
		"jobTitle":   r.JobTitle,
		"candidates": len(r.Candidates),
		"skipped":    len(r.Skipped),
		"topScore":   top,
	}
	if r.Persisted {
		data["batchId"] = r.BatchID.String()
	}
	return data
}
