package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/api"
	"github.com/jackzampolin/booksmith/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "booksmith",
	Short: "LLM-powered book generation pipeline",
	Long: `Booksmith turns a one-line story idea into a complete book using an
LLM generation pipeline.

The pipeline runs in order:
  - Story summary from the seed prompt
  - Book title and character list
  - Chapter-by-chapter plan
  - Full prose for each chapter, written sequentially

Finished books can be exported as ePub or plain text.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.booksmith/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Load .env and set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
