package matching

import (
	"math"
	"strings"
)

const (
	ValidatedSkillBonus = 5
	MaxScore            = 100
	summarySkillLimit   = 3
)

type Result struct {
	MatchScore    int      `json:"matchScore"`
	Summary       string   `json:"summary"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// Score compares the resume and job description skill sets.
//
// The base score is the share of job description skills present in the
// resume. Every matched skill that also appears in validated adds
// ValidatedSkillBonus points. The sum is rounded half up and capped at
// MaxScore. Matched and missing lists are in lexical order.
func Score(resume, jd SkillSet, validated []string) Result {
	matched := make([]string, 0, jd.Len())
	missing := make([]string, 0, jd.Len())
	for _, s := range jd.Sorted() {
		if resume.Contains(s) {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	base := 0.0
	if jd.Len() > 0 {
		base = float64(100*len(matched)) / float64(jd.Len())
	}

	approved := NewSkillSet(normalizeAll(validated)...)
	bonus := 0
	for _, s := range matched {
		if approved.Contains(s) {
			bonus += ValidatedSkillBonus
		}
	}

	final := clampInt(roundHalfUp(base+float64(bonus)), 0, MaxScore)

	return Result{
		MatchScore:    final,
		Summary:       buildSummary(final, matched, missing, bonus),
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

// Engine runs extraction and scoring against one vocabulary.
type Engine struct {
	extractor *Extractor
	vocab     *Vocabulary
}

func NewEngine(vocab *Vocabulary) *Engine {
	return &Engine{extractor: NewExtractor(vocab), vocab: vocab}
}

func (e *Engine) Vocabulary() *Vocabulary {
	if e == nil {
		return nil
	}
	return e.vocab
}

func (e *Engine) Extract(text string) SkillSet {
	return e.extractor.Extract(text)
}

func (e *Engine) Analyze(resumeText, jdText string, validated []string) Result {
	return Score(e.extractor.Extract(resumeText), e.extractor.Extract(jdText), validated)
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := NormalizePhrase(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func joinSkills(items []string) string {
	return strings.Join(firstN(items, summarySkillLimit), ", ")
}
