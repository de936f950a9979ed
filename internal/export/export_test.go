package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/booksmith/internal/book"
)

func sampleBook() *book.Book {
	b := book.New("seed")
	b.Title = "The Unwound Hour"
	b.StorySummary = "A clockmaker discovers her clocks rewind memories."
	b.Chapters = []book.Chapter{
		{ChapterNumber: 1, Title: "The Shop", Content: "Ada opened the shop.\n\nThe bell rang twice."},
		{ChapterNumber: 2, Title: "The Rewind", Content: ""},
		{ChapterNumber: 3, Title: "The Choice", Content: "She chose the past."},
	}
	return b
}

func TestExporter_Text(t *testing.T) {
	e := New(t.TempDir())
	path, err := e.Text(sampleBook())
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if filepath.Base(path) != "the-unwound-hour.txt" {
		t.Errorf("path = %q, want slugged filename", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "The Unwound Hour\n================") {
		t.Error("missing underlined title header")
	}
	if !strings.Contains(text, "Chapter 1: The Shop") {
		t.Error("missing chapter 1 heading")
	}
	if strings.Contains(text, "Chapter 2") {
		t.Error("empty chapter should be skipped")
	}
	if !strings.Contains(text, "Chapter 3: The Choice") {
		t.Error("missing chapter 3 heading")
	}
}

func TestExporter_EPUB(t *testing.T) {
	e := New(t.TempDir())
	path, err := e.EPUB(sampleBook())
	if err != nil {
		t.Fatalf("EPUB() error = %v", err)
	}
	if filepath.Base(path) != "the-unwound-hour.epub" {
		t.Errorf("path = %q, want slugged filename", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("epub file is empty")
	}
}

func TestExporter_UntitledFallback(t *testing.T) {
	e := New(t.TempDir())
	b := book.New("seed")
	b.Chapters = []book.Chapter{{ChapterNumber: 1, Title: "One", Content: "prose"}}

	path, err := e.Text(b)
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if filepath.Base(path) != "untitled-book.txt" {
		t.Errorf("path = %q, want untitled fallback", path)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "The Unwound Hour", "the-unwound-hour"},
		{"punctuation", "Ada's Clock: A Tale!", "ada-s-clock-a-tale"},
		{"collapses_runs", "a   --  b", "a-b"},
		{"trims_edges", "  edge  ", "edge"},
		{"empty_title", "", "untitled-book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &book.Book{Title: tt.title}
			if got := filename(b); got != tt.want {
				t.Errorf("filename(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestChapterXHTML(t *testing.T) {
	got := chapterXHTML("Chapter 1: A <Tale>", "First paragraph.\n\nSecond & final.")
	if !strings.Contains(got, "<h1>Chapter 1: A &lt;Tale&gt;</h1>") {
		t.Errorf("heading not escaped: %q", got)
	}
	if !strings.Contains(got, "<p>First paragraph.</p>") {
		t.Errorf("missing first paragraph: %q", got)
	}
	if !strings.Contains(got, "<p>Second &amp; final.</p>") {
		t.Errorf("second paragraph not escaped: %q", got)
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"english", "en"},
		{"English", "en"},
		{"german", "de"},
		{"fr", "fr"},
		{"", "en"},
		{"klingon", "en"},
	}
	for _, tt := range tests {
		if got := languageCode(tt.input); got != tt.want {
			t.Errorf("languageCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
