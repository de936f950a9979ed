package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackzampolin/booksmith/internal/book"
	"github.com/jackzampolin/booksmith/internal/steps"
)

// PartialFailureError reports a full-book run that completed some stages but
// not all. The book retains everything that did succeed.
type PartialFailureError struct {
	FailedSteps []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("book generation completed with failures: %s", strings.Join(e.FailedSteps, ", "))
}

// WriteFullBook runs the whole pipeline on b: summary, title, characters,
// chapter plan, then every chapter in order. A stage failure is recorded and
// the run continues with whatever later stages remain possible; dependency
// errors from stages gated on a failed one are folded into the same record.
// Returns nil when everything succeeded, *PartialFailureError otherwise.
func (a *Agent) WriteFullBook(ctx context.Context, b *book.Book) error {
	a.report("🚀 Starting full book generation...")

	var failed []string
	stages := []struct {
		label string
		run   func(context.Context, *book.Book) error
	}{
		{"Story Summary", a.GenerateStorySummary},
		{"Title", a.GenerateTitle},
		{"Characters", a.GenerateCharacters},
		{"Chapter Plan", a.GenerateChapterPlan},
	}
	for _, stage := range stages {
		if err := stage.run(ctx, b); err != nil {
			a.logger.Error("stage failed", "stage", stage.label, "error", err)
			failed = append(failed, stage.label)
		}
	}

	var failedChapters []int
	if len(b.Chapters) > 0 {
		skip := make(map[int]bool)
		for i := range b.Chapters {
			num := b.Chapters[i].ChapterNumber
			if err := a.writeChapter(ctx, b, num, skip); err != nil {
				a.logger.Error("chapter failed", "chapter", num, "error", err)
				failedChapters = append(failedChapters, num)
				skip[num] = true
			}
		}
	}
	if len(failedChapters) > 0 {
		failed = append(failed, "Chapters: "+joinInts(failedChapters))
	}

	completed := b.CompletedChapters()
	a.report(fmt.Sprintf("📖 Book generation finished: %d/%d chapters written, %d words total",
		completed, len(b.Chapters), b.WordCount()))

	if len(failed) > 0 {
		a.logger.Warn("book generation completed with failures", "failed_steps", failed)
		return &PartialFailureError{FailedSteps: failed}
	}
	a.logger.Info("book generation completed", "chapters", completed, "words", b.WordCount())
	return nil
}

// RegenerateChapter clears a chapter's content and writes it again. Unlike
// WriteChapterContent it accepts a chapter that already has content; the
// sequential-order rule still applies to earlier chapters.
func (a *Agent) RegenerateChapter(ctx context.Context, b *book.Book, chapterNumber int) error {
	ch := b.Chapter(chapterNumber)
	if ch == nil {
		return &steps.DependencyError{
			Step:    steps.StepChapterContent,
			Missing: []string{fmt.Sprintf("chapter_%d_not_found", chapterNumber)},
		}
	}

	previous := ch.Content
	ch.Content = ""
	if err := a.writeChapter(ctx, b, chapterNumber, nil); err != nil {
		ch.Content = previous
		return err
	}
	return nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
