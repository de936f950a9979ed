package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/api"
	"github.com/jackzampolin/booksmith/internal/svcctx"
)

// ExportResponse reports where an export landed.
type ExportResponse struct {
	Format string `json:"format"`
	Path   string `json:"path"`
}

// ExportEndpoint handles POST /api/books/{id}/export/{format}.
type ExportEndpoint struct{}

func (e *ExportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/{id}/export/{format}", e.handler
}

func (e *ExportEndpoint) RequiresInit() bool { return true }

func (e *ExportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec, ok := lookupBook(w, r)
	if !ok {
		return
	}
	if rec.Book.CompletedChapters() == 0 {
		writeError(w, http.StatusBadRequest, "book has no written chapters to export")
		return
	}

	exporter := svcctx.ExporterFrom(r.Context())
	format := r.PathValue("format")

	var path string
	var err error
	switch format {
	case "epub":
		path, err = exporter.EPUB(rec.Book)
	case "text":
		path, err = exporter.Text(rec.Book)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ExportResponse{Format: format, Path: path})
}

func (e *ExportEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <book-id>",
		Short: "Export a book to epub or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ExportResponse
			path := "/api/books/" + args[0] + "/export/" + format
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Exported %s to %s\n", resp.Format, resp.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "epub", "Export format (epub or text)")
	return cmd
}
