package dto

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	ResumeText      string   `json:"resume_text" validate:"notblank"`
	JDText          string   `json:"jd_text" validate:"notblank"`
	ValidatedSkills []string `json:"validated_skills"`
}

type AnalyzeResponse struct {
	MatchScore    int      `json:"matchScore"`
	Summary       string   `json:"summary"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

type SkillsResponse struct {
	Count       int      `json:"count"`
	Fingerprint string   `json:"fingerprint"`
	Skills      []string `json:"skills"`
}
