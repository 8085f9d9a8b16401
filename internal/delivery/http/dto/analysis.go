package dto

import "time"

type SaveAnalysisRequest struct {
	ResumeFileName string   `json:"resumeFileName" validate:"notblank"`
	MatchScore     *int     `json:"matchScore" validate:"required,min=0,max=100"`
	Summary        string   `json:"summary" validate:"notblank"`
	MatchedSkills  []string `json:"matchedSkills"`
	MissingSkills  []string `json:"missingSkills"`
}

type AnalysisResponse struct {
	ID             string    `json:"id"`
	ResumeFileName string    `json:"resumeFileName"`
	MatchScore     int       `json:"matchScore"`
	Summary        string    `json:"summary"`
	MatchedSkills  []string  `json:"matchedSkills"`
	MissingSkills  []string  `json:"missingSkills"`
	AnalysisDate   time.Time `json:"analysisDate"`
}
