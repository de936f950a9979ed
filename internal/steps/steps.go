// Package steps validates that a book is ready for a given generation step.
//
// The pipeline is a small state machine:
//
//	SUMMARY -> TITLE | CHARACTERS -> CHAPTER_PLAN -> CHAPTER_CONTENT
//
// TITLE and CHARACTERS both gate only on SUMMARY. Chapter content
// additionally requires strictly sequential writing.
package steps

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/booksmith/internal/book"
)

// Step identifies one generation step.
type Step string

const (
	StepSummary        Step = "summary"
	StepTitle          Step = "title"
	StepCharacters     Step = "characters"
	StepChapterPlan    Step = "chapter_plan"
	StepChapterContent Step = "chapter_content"
)

// dependencies maps each step to the book attributes that must be
// populated before the step may run.
var dependencies = map[Step][]string{
	StepSummary:        {},
	StepTitle:          {"story_summary"},
	StepCharacters:     {"story_summary"},
	StepChapterPlan:    {"story_summary", "characters"},
	StepChapterContent: {"story_summary", "characters", "chapters"},
}

// DependencyError reports every unmet dependency for a step at once so
// callers can surface the full list instead of the first miss.
type DependencyError struct {
	Step    Step
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies for %s: %s", e.Step, strings.Join(e.Missing, ", "))
}

// Validate checks that b has everything the given step needs. It is a pure
// check with no side effects. For StepChapterContent, chapterNumber selects
// the chapter being written; the chapter must exist, must not already have
// content, and every earlier chapter must be written first.
func Validate(b *book.Book, step Step, chapterNumber int) error {
	return validate(b, step, chapterNumber, nil)
}

// ValidateSkipping is Validate with a set of chapter numbers excluded from
// the sequential-order check. The full-book orchestrator uses it so one
// failed chapter does not block every chapter after it; direct single-
// chapter calls always use the strict Validate.
func ValidateSkipping(b *book.Book, step Step, chapterNumber int, skip map[int]bool) error {
	return validate(b, step, chapterNumber, skip)
}

func validate(b *book.Book, step Step, chapterNumber int, skip map[int]bool) error {
	var missing []string
	for _, dep := range dependencies[step] {
		if !attrPresent(b, dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: step, Missing: missing}
	}

	if step == StepChapterContent {
		return validateChapterContent(b, chapterNumber, skip)
	}
	return nil
}

func validateChapterContent(b *book.Book, chapterNumber int, skip map[int]bool) error {
	target := b.Chapter(chapterNumber)
	if target == nil {
		return &DependencyError{
			Step:    StepChapterContent,
			Missing: []string{fmt.Sprintf("chapter_%d_not_found", chapterNumber)},
		}
	}

	if target.Content != "" {
		return &DependencyError{
			Step:    StepChapterContent,
			Missing: []string{fmt.Sprintf("Chapter %d already has content", chapterNumber)},
		}
	}

	// Chapters are written one at a time in increasing order; skipping
	// ahead would break narrative continuity in the content prompts.
	for i := range b.Chapters {
		ch := &b.Chapters[i]
		if skip[ch.ChapterNumber] {
			continue
		}
		if ch.ChapterNumber < chapterNumber && ch.Content == "" {
			return &DependencyError{
				Step: StepChapterContent,
				Missing: []string{
					fmt.Sprintf("Chapter %d must be written before chapter %d", ch.ChapterNumber, chapterNumber),
				},
			}
		}
	}
	return nil
}

func attrPresent(b *book.Book, attr string) bool {
	switch attr {
	case "story_summary":
		return b.StorySummary != ""
	case "characters":
		return len(b.Characters) > 0
	case "chapters":
		return len(b.Chapters) > 0
	case "title":
		return b.Title != ""
	case "base_prompt":
		return b.BasePrompt != ""
	default:
		return false
	}
}
