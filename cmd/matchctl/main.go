// Package main provides matchctl, the command line companion of the match
// service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "matchctl",
	Short:         "Resume to job description skill matching",
	Long:          "matchctl scores resumes against job descriptions with the same engine the HTTP service uses, lists the skill vocabulary and applies database migrations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
