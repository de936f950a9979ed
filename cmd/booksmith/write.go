package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/agent"
	"github.com/jackzampolin/booksmith/internal/book"
	"github.com/jackzampolin/booksmith/internal/config"
	"github.com/jackzampolin/booksmith/internal/export"
	"github.com/jackzampolin/booksmith/internal/server"
)

var (
	writeLanguage string
	writeStyle    string
	writeGenre    string
	writeAudience string
	writeFormat   string
	writeVerbose  bool
)

var writeCmd = &cobra.Command{
	Use:   "write <base-prompt>",
	Short: "Write a complete book locally, no server needed",
	Long: `Run the full generation pipeline in-process and export the result.

Stages that fail are reported at the end; everything that succeeded is
still exported.

Examples:
  booksmith write "A lighthouse keeper who collects lost memories"
  booksmith write --genre mystery --format text "A detective who can't lie"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		level := slog.LevelWarn
		if writeVerbose {
			level = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := configMgr.Get()

		b := book.New(args[0])
		if writeLanguage != "" {
			b.Language = writeLanguage
		} else if cfg.Defaults.Language != "" {
			b.Language = cfg.Defaults.Language
		}
		if writeStyle != "" {
			b.WritingStyle = writeStyle
		} else if cfg.Defaults.WritingStyle != "" {
			b.WritingStyle = cfg.Defaults.WritingStyle
		}
		if writeGenre != "" {
			b.Genre = writeGenre
		} else if cfg.Defaults.Genre != "" {
			b.Genre = cfg.Defaults.Genre
		}
		if writeAudience != "" {
			b.TargetAudience = writeAudience
		} else if cfg.Defaults.TargetAudience != "" {
			b.TargetAudience = cfg.Defaults.TargetAudience
		}

		ag, err := agent.New(agent.Config{
			Backend: server.BackendFromConfig(cfg, logger),
			Logger:  logger,
			Progress: func(message string) {
				fmt.Println(message)
			},
		})
		if err != nil {
			return err
		}

		runErr := ag.WriteFullBook(ctx, b)
		var partial *agent.PartialFailureError
		if runErr != nil && !errors.As(runErr, &partial) {
			return runErr
		}

		if b.CompletedChapters() > 0 {
			exporter := export.New(cfg.Output.Dir)
			var path string
			switch writeFormat {
			case "epub":
				path, err = exporter.EPUB(b)
			case "text":
				path, err = exporter.Text(b)
			default:
				return fmt.Errorf("unknown export format %q", writeFormat)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
		}

		if partial != nil {
			return fmt.Errorf("some steps failed: %v", partial.FailedSteps)
		}
		return nil
	},
}

func init() {
	writeCmd.Flags().StringVar(&writeLanguage, "language", "", "Book language")
	writeCmd.Flags().StringVar(&writeStyle, "style", "", "Writing style")
	writeCmd.Flags().StringVar(&writeGenre, "genre", "", "Genre")
	writeCmd.Flags().StringVar(&writeAudience, "audience", "", "Target audience")
	writeCmd.Flags().StringVar(&writeFormat, "format", "epub", "Export format (epub or text)")
	writeCmd.Flags().BoolVarP(&writeVerbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(writeCmd)
}
