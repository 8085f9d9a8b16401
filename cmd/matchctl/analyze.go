package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smart-resume-match/internal/app"
	"smart-resume-match/internal/config"
	"smart-resume-match/internal/domain/matching"
	"smart-resume-match/internal/infrastructure/document"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score one resume against one job description",
	Long:  "Extracts the vocabulary skills of a resume (text, PDF or DOCX) and a job description and prints the match score, summary and skill lists.",
	RunE:  runAnalyze,
}

var (
	analyzeResume    string
	analyzeJD        string
	analyzeValidated []string
	analyzeSkills    string
	analyzeJSON      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJD, "jd", "j", "", "Path to the job description file (required)")
	analyzeCmd.Flags().StringSliceVar(&analyzeValidated, "validated", nil, "Comma separated skills previously approved by a recruiter")
	analyzeCmd.Flags().StringVar(&analyzeSkills, "skills", "", "Vocabulary file, one phrase per line (defaults to the built-in list)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := analyzeCmd.MarkFlagRequired("jd"); err != nil {
		panic(fmt.Sprintf("failed to mark jd flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	vocab, err := app.LoadVocabulary(config.SkillsConfig{VocabularyFile: analyzeSkills})
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	resumeText, err := readDocument(analyzeResume)
	if err != nil {
		return err
	}
	jdText, err := readDocument(analyzeJD)
	if err != nil {
		return err
	}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jdText) == "" {
		return fmt.Errorf("resume and job description must both contain text")
	}

	res := matching.NewEngine(vocab).Analyze(resumeText, jdText, analyzeValidated)

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Score:   %d%%\n", res.MatchScore)
	fmt.Fprintf(out, "Matched: %s\n", strings.Join(res.MatchedSkills, ", "))
	fmt.Fprintf(out, "Missing: %s\n", strings.Join(res.MissingSkills, ", "))
	fmt.Fprintf(out, "\n%s\n", res.Summary)
	return nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := document.ExtractText(filepath.Base(path), "", data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}
