package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackzampolin/booksmith/internal/book"
)

func TestWriteFullBook_Success(t *testing.T) {
	a := newTestAgent(t, scriptedMock())
	b := book.New("a clockmaker who rewinds memories")

	if err := a.WriteFullBook(context.Background(), b); err != nil {
		t.Fatalf("WriteFullBook() error = %v", err)
	}

	if b.StorySummary == "" {
		t.Error("StorySummary empty")
	}
	if b.Title != "The Unwound Hour" {
		t.Errorf("Title = %q", b.Title)
	}
	if len(b.Characters) != 2 {
		t.Errorf("len(Characters) = %d, want 2", len(b.Characters))
	}
	if len(b.Chapters) != 2 {
		t.Fatalf("len(Chapters) = %d, want 2", len(b.Chapters))
	}
	if b.CompletedChapters() != 2 {
		t.Errorf("CompletedChapters() = %d, want 2", b.CompletedChapters())
	}
}

func TestWriteFullBook_TitleFailureIsPartial(t *testing.T) {
	m := scriptedMock()
	m.FailKinds["title"] = errors.New("boom")
	a := newTestAgent(t, m)
	b := book.New("seed")

	err := a.WriteFullBook(context.Background(), b)
	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("WriteFullBook() error = %v, want PartialFailureError", err)
	}

	if len(partial.FailedSteps) != 1 || partial.FailedSteps[0] != "Title" {
		t.Errorf("FailedSteps = %v, want [Title]", partial.FailedSteps)
	}
	// Everything else still completed.
	if b.StorySummary == "" || len(b.Characters) == 0 || b.CompletedChapters() != 2 {
		t.Errorf("other stages should complete: summary=%q chars=%d done=%d",
			b.StorySummary, len(b.Characters), b.CompletedChapters())
	}
}

func TestWriteFullBook_SummaryFailureCascades(t *testing.T) {
	m := scriptedMock()
	m.FailKinds["story_summary"] = errors.New("boom")
	a := newTestAgent(t, m)
	b := book.New("seed")

	err := a.WriteFullBook(context.Background(), b)
	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("WriteFullBook() error = %v, want PartialFailureError", err)
	}

	// Summary failed outright; every stage gated on it fails its
	// dependency check and is recorded the same way.
	want := []string{"Story Summary", "Title", "Characters", "Chapter Plan"}
	if len(partial.FailedSteps) != len(want) {
		t.Fatalf("FailedSteps = %v, want %v", partial.FailedSteps, want)
	}
	for i, step := range want {
		if partial.FailedSteps[i] != step {
			t.Errorf("FailedSteps[%d] = %q, want %q", i, partial.FailedSteps[i], step)
		}
	}
}

func TestWriteFullBook_ChapterFailureDoesNotBlockLater(t *testing.T) {
	m := scriptedMock()
	m.Responses["chapter_plan"] = map[string]any{
		"chapters": []any{
			map[string]any{"chapter_number": float64(1), "title": "One", "summary": "s"},
			map[string]any{"chapter_number": float64(2), "title": "Two", "summary": "s"},
			map[string]any{"chapter_number": float64(3), "title": "Three", "summary": "s"},
		},
	}
	delete(m.Responses, "chapter_content")
	m.FailKinds["chapter_content"] = errors.New("boom")
	a := newTestAgent(t, m)

	b := book.New("seed")
	err := a.WriteFullBook(context.Background(), b)
	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("WriteFullBook() error = %v, want PartialFailureError", err)
	}

	// All three chapters failed and are folded into one entry.
	found := false
	for _, step := range partial.FailedSteps {
		if step == "Chapters: 1, 2, 3" {
			found = true
		}
	}
	if !found {
		t.Errorf("FailedSteps = %v, want entry %q", partial.FailedSteps, "Chapters: 1, 2, 3")
	}
}

func TestWriteFullBook_ProgressSummary(t *testing.T) {
	var messages []string
	a, err := New(Config{
		Backend:  scriptedMock(),
		Progress: func(msg string) { messages = append(messages, msg) },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.WriteFullBook(context.Background(), book.New("seed")); err != nil {
		t.Fatalf("WriteFullBook() error = %v", err)
	}

	last := messages[len(messages)-1]
	if !strings.Contains(last, "2/2 chapters written") {
		t.Errorf("final message = %q, want chapter completion summary", last)
	}
	if !strings.Contains(last, "words total") {
		t.Errorf("final message = %q, want word count", last)
	}
}

func TestPartialFailureError_Error(t *testing.T) {
	err := &PartialFailureError{FailedSteps: []string{"Title", "Chapters: 2"}}
	want := "book generation completed with failures: Title, Chapters: 2"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
