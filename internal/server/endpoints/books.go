package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/api"
	"github.com/jackzampolin/booksmith/internal/book"
	"github.com/jackzampolin/booksmith/internal/store"
	"github.com/jackzampolin/booksmith/internal/svcctx"
)

// CreateBookRequest is the payload for creating a book.
type CreateBookRequest struct {
	BasePrompt     string `json:"base_prompt"`
	Language       string `json:"language,omitempty"`
	WritingStyle   string `json:"writing_style,omitempty"`
	Genre          string `json:"genre,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
}

// CreateBookEndpoint handles POST /api/books.
type CreateBookEndpoint struct{}

func (e *CreateBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books", e.handler
}

func (e *CreateBookEndpoint) RequiresInit() bool { return true }

func (e *CreateBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BasePrompt == "" {
		writeError(w, http.StatusBadRequest, "base_prompt is required")
		return
	}

	b := book.New(req.BasePrompt)
	if req.Language != "" {
		b.Language = req.Language
	}
	if req.WritingStyle != "" {
		b.WritingStyle = req.WritingStyle
	}
	if req.Genre != "" {
		b.Genre = req.Genre
	}
	if req.TargetAudience != "" {
		b.TargetAudience = req.TargetAudience
	}

	rec, err := svcctx.BooksFrom(r.Context()).Create(r.Context(), b)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (e *CreateBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	var language, style, genre, audience string
	cmd := &cobra.Command{
		Use:   "create <base-prompt>",
		Short: "Create a new book from a seed prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := CreateBookRequest{
				BasePrompt:     args[0],
				Language:       language,
				WritingStyle:   style,
				Genre:          genre,
				TargetAudience: audience,
			}
			var rec store.Record
			if err := client.Post(cmd.Context(), "/api/books", req, &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "Book language")
	cmd.Flags().StringVar(&style, "style", "", "Writing style")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&audience, "audience", "", "Target audience")
	return cmd
}

// ListBooksEndpoint handles GET /api/books.
type ListBooksEndpoint struct{}

func (e *ListBooksEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books", e.handler
}

func (e *ListBooksEndpoint) RequiresInit() bool { return true }

func (e *ListBooksEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	records, err := svcctx.BooksFrom(r.Context()).List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (e *ListBooksEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var records []store.Record
			if err := client.Get(cmd.Context(), "/api/books", &records); err != nil {
				return err
			}
			for _, rec := range records {
				title := rec.Book.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%s  %s  %d/%d chapters\n",
					rec.ID, title, rec.Book.CompletedChapters(), len(rec.Book.Chapters))
			}
			return nil
		},
	}
}

// GetBookEndpoint handles GET /api/books/{id}.
type GetBookEndpoint struct{}

func (e *GetBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/{id}", e.handler
}

func (e *GetBookEndpoint) RequiresInit() bool { return true }

func (e *GetBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (e *GetBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a book by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var rec store.Record
			if err := client.Get(cmd.Context(), "/api/books/"+args[0], &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
}

// DeleteBookEndpoint handles DELETE /api/books/{id}.
type DeleteBookEndpoint struct{}

func (e *DeleteBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/books/{id}", e.handler
}

func (e *DeleteBookEndpoint) RequiresInit() bool { return true }

func (e *DeleteBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "book id is required")
		return
	}

	if err := svcctx.BooksFrom(r.Context()).Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (e *DeleteBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/books/"+args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

// lookupBook fetches the record for the {id} path value, writing the error
// response itself when the lookup fails.
func lookupBook(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "book id is required")
		return nil, false
	}

	rec, err := svcctx.BooksFrom(r.Context()).Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return rec, true
}
