package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	formResumes         = "resumes"
	formJobDescription  = "jobDescription"
	formJobURL          = "jobUrl"
	formJobTitle        = "jobTitle"
	formValidatedSkills = "validatedSkills"
)

// MatchHandler ranks a batch of uploaded resumes against one job.
type MatchHandler struct {
	uc usecase.BatchUsecase
}

func NewMatchHandler(uc usecase.BatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.HandleRankBatch)
}

func (h *MatchHandler) HandleRankBatch(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgNoResumes, nil, err)
	}

	headers := append(form.File[formResumes], form.File[formResumes+"[]"]...)
	if len(headers) > usecase.MaxBatchFiles {
		return mapBatchUsecaseError(usecase.ErrTooManyResumes)
	}

	files := make([]usecase.ResumeFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readResumeFile(fh)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		files = append(files, f)
	}

	validated, err := parseValidatedSkills(form.Value[formValidatedSkills])
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.RankBatch(c.Context(), usecase.BatchInput{
		JobTitle:        firstValue(form, formJobTitle),
		JobDescription:  firstValue(form, formJobDescription),
		JobURL:          firstValue(form, formJobURL),
		Files:           files,
		ValidatedSkills: validated,
	})
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchBatchResponse(res))
}

func readResumeFile(fh *multipart.FileHeader) (usecase.ResumeFile, error) {
	src, err := fh.Open()
	if err != nil {
		return usecase.ResumeFile{}, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return usecase.ResumeFile{}, fmt.Errorf("read %q: %w", fh.Filename, err)
	}
	return usecase.ResumeFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// parseValidatedSkills accepts repeated form fields, a comma separated list
// or a JSON array of strings.
func parseValidatedSkills(values []string) ([]string, error) {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err != nil {
				return nil, fmt.Errorf("%s: %w", formValidatedSkills, err)
			}
			out = append(out, arr...)
			continue
		}
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func toMatchBatchResponse(r usecase.BatchResult) dto.MatchBatchResponse {
	out := dto.MatchBatchResponse{
		Persisted:        r.Persisted,
		JobTitle:         r.JobTitle,
		AnalysisDate:     r.AnalysisDate.UTC(),
		ValidatedSkills:  nonNilStrings(r.ValidatedSkills),
		RankedCandidates: make([]dto.CandidateResponse, 0, len(r.Candidates)),
		Skipped:          make([]dto.SkippedFileResponse, 0, len(r.Skipped)),
	}
	if r.Persisted {
		out.BatchID = r.BatchID.String()
	}
	for i, cand := range r.Candidates {
		cr := dto.CandidateResponse{
			FileName:      cand.FileName,
			MatchScore:    cand.MatchScore,
			Summary:       cand.Summary,
			MatchedSkills: nonNilStrings(cand.MatchedSkills),
			MissingSkills: nonNilStrings(cand.MissingSkills),
			Status:        cand.Status,
			Notes:         cand.Notes,
			Rank:          i + 1,
		}
		if r.Persisted {
			cr.ID = cand.ID.String()
		}
		out.RankedCandidates = append(out.RankedCandidates, cr)
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedFileResponse{FileName: s.FileName, Reason: s.Reason})
	}
	return out
}
