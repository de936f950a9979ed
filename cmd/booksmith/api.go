package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Booksmith server via HTTP.

These commands require a running server (booksmith serve).
Use --server to specify a custom server URL.

Examples:
  booksmith api health                 # Check server health
  booksmith api books list             # List all books
  booksmith api books generate <id>    # Run the full pipeline`,
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book management and generation commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8765", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Books as subcommand group
	booksCmd.AddCommand((&endpoints.CreateBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.ListBooksEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.GetBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.DeleteBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand(endpoints.SummaryEndpoint().Command(getServerURL))
	booksCmd.AddCommand(endpoints.TitleEndpoint().Command(getServerURL))
	booksCmd.AddCommand(endpoints.CharactersEndpoint().Command(getServerURL))
	booksCmd.AddCommand(endpoints.ChapterPlanEndpoint().Command(getServerURL))
	booksCmd.AddCommand((&endpoints.WriteChapterEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.RegenerateChapterEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.GenerateBookEndpoint{}).Command(getServerURL))
	booksCmd.AddCommand((&endpoints.ExportEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(apiCmd)
}
