package main

import (
	"fmt"

	"smart-resume-match/internal/app"
	"smart-resume-match/internal/config"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skill vocabulary",
	RunE:  runSkills,
}

var skillsFile string

func init() {
	skillsCmd.Flags().StringVar(&skillsFile, "skills", "", "Vocabulary file, one phrase per line (defaults to the built-in list)")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	vocab, err := app.LoadVocabulary(config.SkillsConfig{VocabularyFile: skillsFile})
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, p := range vocab.Phrases() {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "# %d phrases, fingerprint %s\n", vocab.Len(), vocab.Fingerprint())
	return nil
}
