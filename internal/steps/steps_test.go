package steps

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackzampolin/booksmith/internal/book"
)

func readyBook() *book.Book {
	b := book.New("test prompt")
	b.StorySummary = "a summary"
	b.Characters = []book.Character{{Name: "Ada"}}
	b.Chapters = []book.Chapter{
		{ChapterNumber: 1, Title: "One"},
		{ChapterNumber: 2, Title: "Two"},
		{ChapterNumber: 3, Title: "Three"},
	}
	return b
}

func TestValidate_Dependencies(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*book.Book)
		step    Step
		missing []string
	}{
		{
			name:  "summary_needs_nothing",
			setup: func(b *book.Book) { b.StorySummary = "" },
			step:  StepSummary,
		},
		{
			name:    "title_needs_summary",
			setup:   func(b *book.Book) { b.StorySummary = "" },
			step:    StepTitle,
			missing: []string{"story_summary"},
		},
		{
			name:    "characters_need_summary",
			setup:   func(b *book.Book) { b.StorySummary = "" },
			step:    StepCharacters,
			missing: []string{"story_summary"},
		},
		{
			name: "plan_reports_all_missing",
			setup: func(b *book.Book) {
				b.StorySummary = ""
				b.Characters = nil
			},
			step:    StepChapterPlan,
			missing: []string{"story_summary", "characters"},
		},
		{
			name:  "plan_ready",
			setup: func(b *book.Book) {},
			step:  StepChapterPlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := readyBook()
			tt.setup(b)

			err := Validate(b, tt.step, 0)
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var depErr *DependencyError
			if !errors.As(err, &depErr) {
				t.Fatalf("Validate() error = %v, want DependencyError", err)
			}
			if len(depErr.Missing) != len(tt.missing) {
				t.Fatalf("Missing = %v, want %v", depErr.Missing, tt.missing)
			}
			for i, want := range tt.missing {
				if depErr.Missing[i] != want {
					t.Errorf("Missing[%d] = %q, want %q", i, depErr.Missing[i], want)
				}
			}
		})
	}
}

func TestValidate_ChapterContent(t *testing.T) {
	t.Run("first_chapter_ok", func(t *testing.T) {
		if err := Validate(readyBook(), StepChapterContent, 1); err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("chapter_not_found", func(t *testing.T) {
		err := Validate(readyBook(), StepChapterContent, 7)
		var depErr *DependencyError
		if !errors.As(err, &depErr) {
			t.Fatalf("Validate() error = %v, want DependencyError", err)
		}
		if depErr.Missing[0] != "chapter_7_not_found" {
			t.Errorf("Missing = %v, want chapter_7_not_found", depErr.Missing)
		}
	})

	t.Run("already_written", func(t *testing.T) {
		b := readyBook()
		b.Chapters[0].Content = "done"
		err := Validate(b, StepChapterContent, 1)
		var depErr *DependencyError
		if !errors.As(err, &depErr) {
			t.Fatalf("Validate() error = %v, want DependencyError", err)
		}
		if !strings.Contains(depErr.Missing[0], "Chapter 1 already has content") {
			t.Errorf("Missing = %v, want already-has-content message", depErr.Missing)
		}
	})

	t.Run("out_of_order", func(t *testing.T) {
		err := Validate(readyBook(), StepChapterContent, 3)
		var depErr *DependencyError
		if !errors.As(err, &depErr) {
			t.Fatalf("Validate() error = %v, want DependencyError", err)
		}
		if !strings.Contains(depErr.Missing[0], "Chapter 1 must be written before chapter 3") {
			t.Errorf("Missing = %v, want out-of-order message", depErr.Missing)
		}
	})

	t.Run("in_order_after_previous", func(t *testing.T) {
		b := readyBook()
		b.Chapters[0].Content = "chapter one prose"
		if err := Validate(b, StepChapterContent, 2); err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
	})
}

func TestValidateSkipping(t *testing.T) {
	t.Run("skipped_chapter_does_not_block", func(t *testing.T) {
		b := readyBook()
		b.Chapters[0].Content = "chapter one prose"
		// Chapter 2 failed; chapter 3 should still be writable.
		skip := map[int]bool{2: true}
		if err := ValidateSkipping(b, StepChapterContent, 3, skip); err != nil {
			t.Fatalf("ValidateSkipping() error = %v, want nil", err)
		}
	})

	t.Run("unskipped_gap_still_blocks", func(t *testing.T) {
		b := readyBook()
		skip := map[int]bool{2: true}
		err := ValidateSkipping(b, StepChapterContent, 3, skip)
		if err == nil {
			t.Fatal("ValidateSkipping() = nil, want error for unwritten chapter 1")
		}
	})

	t.Run("nil_skip_matches_validate", func(t *testing.T) {
		b := readyBook()
		strict := Validate(b, StepChapterContent, 2)
		skipping := ValidateSkipping(b, StepChapterContent, 2, nil)
		if (strict == nil) != (skipping == nil) {
			t.Errorf("Validate = %v, ValidateSkipping = %v; want same outcome", strict, skipping)
		}
	})
}

func TestDependencyError_Error(t *testing.T) {
	err := &DependencyError{Step: StepChapterPlan, Missing: []string{"story_summary", "characters"}}
	want := "missing dependencies for chapter_plan: story_summary, characters"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
