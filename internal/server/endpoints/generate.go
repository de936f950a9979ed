package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/agent"
	"github.com/jackzampolin/booksmith/internal/api"
	"github.com/jackzampolin/booksmith/internal/book"
	"github.com/jackzampolin/booksmith/internal/steps"
	"github.com/jackzampolin/booksmith/internal/store"
	"github.com/jackzampolin/booksmith/internal/svcctx"
)

// GenerateResponse wraps the updated record, with failed steps when the run
// was only partially successful.
type GenerateResponse struct {
	*store.Record
	FailedSteps []string `json:"failed_steps,omitempty"`
}

// stageEndpoint is the shared implementation for the single-stage generation
// endpoints: each runs one pipeline stage against a stored book and saves
// the result.
type stageEndpoint struct {
	slug  string
	short string
	run   func(*agent.Agent, context.Context, *book.Book) error
}

func (e *stageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/{id}/" + e.slug, e.handler
}

func (e *stageEndpoint) RequiresInit() bool { return true }

func (e *stageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}

	ag := svcctx.AgentFrom(r.Context())
	if err := e.run(ag, r.Context(), rec.Book); err != nil {
		writeGenerateError(w, err)
		return
	}

	saved, err := svcctx.BooksFrom(r.Context()).Update(r.Context(), rec.ID, rec.Book)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Record: saved})
}

func (e *stageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   e.slug + " <book-id>",
		Short: e.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			path := "/api/books/" + args[0] + "/" + e.slug
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SummaryEndpoint handles POST /api/books/{id}/summary.
func SummaryEndpoint() api.Endpoint {
	return &stageEndpoint{
		slug:  "summary",
		short: "Generate the story summary",
		run: func(ag *agent.Agent, ctx context.Context, b *book.Book) error {
			return ag.GenerateStorySummary(ctx, b)
		},
	}
}

// TitleEndpoint handles POST /api/books/{id}/title.
func TitleEndpoint() api.Endpoint {
	return &stageEndpoint{
		slug:  "title",
		short: "Generate the book title",
		run: func(ag *agent.Agent, ctx context.Context, b *book.Book) error {
			return ag.GenerateTitle(ctx, b)
		},
	}
}

// CharactersEndpoint handles POST /api/books/{id}/characters.
func CharactersEndpoint() api.Endpoint {
	return &stageEndpoint{
		slug:  "characters",
		short: "Generate the character list",
		run: func(ag *agent.Agent, ctx context.Context, b *book.Book) error {
			return ag.GenerateCharacters(ctx, b)
		},
	}
}

// ChapterPlanEndpoint handles POST /api/books/{id}/chapter-plan.
func ChapterPlanEndpoint() api.Endpoint {
	return &stageEndpoint{
		slug:  "chapter-plan",
		short: "Generate the chapter plan",
		run: func(ag *agent.Agent, ctx context.Context, b *book.Book) error {
			return ag.GenerateChapterPlan(ctx, b)
		},
	}
}

// WriteChapterEndpoint handles POST /api/books/{id}/chapters/{number}.
type WriteChapterEndpoint struct{}

func (e *WriteChapterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/{id}/chapters/{number}", e.handler
}

func (e *WriteChapterEndpoint) RequiresInit() bool { return true }

func (e *WriteChapterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "invalid chapter number")
		return
	}

	ag := svcctx.AgentFrom(r.Context())
	if err := ag.WriteChapterContent(r.Context(), rec.Book, number); err != nil {
		writeGenerateError(w, err)
		return
	}

	saved, err := svcctx.BooksFrom(r.Context()).Update(r.Context(), rec.ID, rec.Book)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Record: saved})
}

func (e *WriteChapterEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "write-chapter <book-id> <number>",
		Short: "Write one chapter's content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			path := "/api/books/" + args[0] + "/chapters/" + args[1]
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RegenerateChapterEndpoint handles POST /api/books/{id}/chapters/{number}/regenerate.
type RegenerateChapterEndpoint struct{}

func (e *RegenerateChapterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/{id}/chapters/{number}/regenerate", e.handler
}

func (e *RegenerateChapterEndpoint) RequiresInit() bool { return true }

func (e *RegenerateChapterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "invalid chapter number")
		return
	}

	ag := svcctx.AgentFrom(r.Context())
	if err := ag.RegenerateChapter(r.Context(), rec.Book, number); err != nil {
		writeGenerateError(w, err)
		return
	}

	saved, err := svcctx.BooksFrom(r.Context()).Update(r.Context(), rec.ID, rec.Book)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Record: saved})
}

func (e *RegenerateChapterEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate-chapter <book-id> <number>",
		Short: "Rewrite a chapter that already has content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			path := "/api/books/" + args[0] + "/chapters/" + args[1] + "/regenerate"
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GenerateBookEndpoint handles POST /api/books/{id}/generate: the full
// pipeline in one call. Partial failures still return 200 with the book's
// completed pieces plus the failed step list.
type GenerateBookEndpoint struct{}

func (e *GenerateBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/{id}/generate", e.handler
}

func (e *GenerateBookEndpoint) RequiresInit() bool { return true }

func (e *GenerateBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}

	ag := svcctx.AgentFrom(r.Context())
	var failed []string
	if err := ag.WriteFullBook(r.Context(), rec.Book); err != nil {
		var partial *agent.PartialFailureError
		if !errors.As(err, &partial) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		failed = partial.FailedSteps
	}

	saved, err := svcctx.BooksFrom(r.Context()).Update(r.Context(), rec.ID, rec.Book)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Record: saved, FailedSteps: failed})
}

func (e *GenerateBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <book-id>",
		Short: "Run the full generation pipeline",
		Long: `Run every pipeline stage in order: story summary, title, characters,
chapter plan, then each chapter. Stages that fail are reported in
failed_steps; everything that succeeded is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			path := "/api/books/" + args[0] + "/generate"
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			if len(resp.FailedSteps) > 0 {
				fmt.Printf("Completed with failures: %v\n", resp.FailedSteps)
			}
			return api.Output(resp)
		},
	}
}

// writeGenerateError maps pipeline errors onto HTTP statuses: unmet
// dependencies are the client's fault, everything else is the backend's.
func writeGenerateError(w http.ResponseWriter, err error) {
	var depErr *steps.DependencyError
	if errors.As(err, &depErr) {
		writeError(w, http.StatusBadRequest, depErr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
