// Package export renders finished books to files on disk.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	epub "github.com/go-shiori/go-epub"

	"github.com/jackzampolin/booksmith/internal/book"
)

// Exporter writes books to an output directory.
type Exporter struct {
	Dir string
}

// New creates an exporter rooted at dir.
func New(dir string) *Exporter {
	if dir == "" {
		dir = "books"
	}
	return &Exporter{Dir: dir}
}

// EPUB writes the book as an ePub and returns the output path. Chapters
// without content are skipped.
func (e *Exporter) EPUB(b *book.Book) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	doc, err := epub.NewEpub(titleOrDefault(b))
	if err != nil {
		return "", fmt.Errorf("failed to create epub: %w", err)
	}
	doc.SetAuthor("Booksmith")
	doc.SetLang(languageCode(b.Language))
	if b.StorySummary != "" {
		doc.SetDescription(b.StorySummary)
	}

	for i := range b.Chapters {
		ch := &b.Chapters[i]
		if ch.Content == "" {
			continue
		}
		title := fmt.Sprintf("Chapter %d: %s", ch.ChapterNumber, ch.Title)
		if _, err := doc.AddSection(chapterXHTML(title, ch.Content), title, "", ""); err != nil {
			return "", fmt.Errorf("failed to add chapter %d: %w", ch.ChapterNumber, err)
		}
	}

	path := filepath.Join(e.Dir, filename(b)+".epub")
	if err := doc.Write(path); err != nil {
		return "", fmt.Errorf("failed to write epub: %w", err)
	}
	return path, nil
}

// Text writes the book as plain text and returns the output path.
func (e *Exporter) Text(b *book.Book) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(titleOrDefault(b))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", len(titleOrDefault(b))))
	sb.WriteString("\n\n")
	if b.StorySummary != "" {
		sb.WriteString(b.StorySummary)
		sb.WriteString("\n\n")
	}
	for i := range b.Chapters {
		ch := &b.Chapters[i]
		if ch.Content == "" {
			continue
		}
		fmt.Fprintf(&sb, "Chapter %d: %s\n\n%s\n\n", ch.ChapterNumber, ch.Title, ch.Content)
	}

	path := filepath.Join(e.Dir, filename(b)+".txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write text export: %w", err)
	}
	return path, nil
}

func titleOrDefault(b *book.Book) string {
	if b.Title != "" {
		return b.Title
	}
	return "Untitled Book"
}

// filename produces a filesystem-safe slug from the book title.
func filename(b *book.Book) string {
	title := strings.ToLower(titleOrDefault(b))
	var sb strings.Builder
	lastDash := true
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

// chapterXHTML renders chapter prose as simple XHTML paragraphs.
func chapterXHTML(title, content string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(title))
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(para))
	}
	return sb.String()
}

// languageCode maps human-readable language names onto ISO 639-1 codes.
func languageCode(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "english", "en", "":
		return "en"
	case "german", "de":
		return "de"
	case "french", "fr":
		return "fr"
	case "spanish", "es":
		return "es"
	case "italian", "it":
		return "it"
	case "portuguese", "pt":
		return "pt"
	case "dutch", "nl":
		return "nl"
	default:
		return "en"
	}
}
