package parse

import (
	"fmt"
	"strings"
	"testing"
)

func TestStorySummary(t *testing.T) {
	long := strings.Repeat("The story continues in detail. ", 4)

	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "labeled_section",
			response: "**Story Summary:** " + long + "\n\nSome trailing notes.",
			want:     strings.TrimSpace(long),
		},
		{
			name:     "summary_label",
			response: "Summary: " + long,
			want:     strings.TrimSpace(long),
		},
		{
			name:     "first_paragraph",
			response: long + "\n\nsecond paragraph here",
			want:     strings.TrimSpace(long),
		},
		{
			name:     "short_text_returned_whole",
			response: "  too short to match  ",
			want:     "too short to match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StorySummary(tt.response); got != tt.want {
				t.Errorf("StorySummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCharacters_BlockFormat(t *testing.T) {
	response := `Here are the characters:

**Character Name:** Ada Voss
**Background:** Raised in the clock tower.
**Appearance:** Tall, ink-stained fingers.
**Personality:** Relentlessly curious.
**Role:** Protagonist

**Character Name:** Brin Hale
**Background:** A rival apprentice.
**Appearance:** Sharp-dressed.
**Personality:** Charming but guarded.
**Role:** Antagonist
`
	chars := Characters(response)
	if len(chars) != 2 {
		t.Fatalf("len(Characters) = %d, want 2", len(chars))
	}
	if chars[0].Name != "Ada Voss" {
		t.Errorf("Name = %q, want %q", chars[0].Name, "Ada Voss")
	}
	if chars[0].BackgroundStory != "Raised in the clock tower." {
		t.Errorf("BackgroundStory = %q", chars[0].BackgroundStory)
	}
	if chars[1].Personality != "Charming but guarded." {
		t.Errorf("Personality = %q", chars[1].Personality)
	}
}

func TestCharacters_Fallback(t *testing.T) {
	t.Run("header_heuristics", func(t *testing.T) {
		response := "ADA VOSS\nShe keeps the tower clocks.\n\nCharacter: Brin\nA rival apprentice."
		chars := Characters(response)
		if len(chars) != 2 {
			t.Fatalf("len(Characters) = %d, want 2", len(chars))
		}
		// Only the last character gets the accumulated description.
		if chars[0].BackgroundStory != "No background provided" {
			t.Errorf("mid character BackgroundStory = %q, want placeholder", chars[0].BackgroundStory)
		}
		if !strings.Contains(chars[1].BackgroundStory, "A rival apprentice.") {
			t.Errorf("last character BackgroundStory = %q, want accumulated description", chars[1].BackgroundStory)
		}
	})

	t.Run("caps_at_five", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 8; i++ {
			fmt.Fprintf(&sb, "CHARACTER %d\ndetails\n", i)
		}
		chars := Characters(sb.String())
		if len(chars) != 5 {
			t.Errorf("len(Characters) = %d, want cap of 5", len(chars))
		}
	})

	t.Run("no_characters", func(t *testing.T) {
		if chars := Characters("just some prose with no headers"); len(chars) != 0 {
			t.Errorf("len(Characters) = %d, want 0", len(chars))
		}
	})
}

func TestChapterPlan_BlockFormat(t *testing.T) {
	response := `**Chapter 1: The Shop**
**Summary:** Ada finds the stopped clock.

**Chapter 2: The Rewind**
**Summary:** Time starts moving backward.
`
	chapters := ChapterPlan(response)
	if len(chapters) != 2 {
		t.Fatalf("len(ChapterPlan) = %d, want 2", len(chapters))
	}
	if chapters[0].ChapterNumber != 1 || chapters[0].Title != "The Shop" {
		t.Errorf("chapter 1 = %+v", chapters[0])
	}
	if chapters[1].Summary != "Time starts moving backward." {
		t.Errorf("Summary = %q", chapters[1].Summary)
	}
}

func TestChapterPlan_Fallback(t *testing.T) {
	t.Run("chapter_lines", func(t *testing.T) {
		response := "Chapter One: The Shop\nsome filler\nChapter Two: The Rewind"
		chapters := ChapterPlan(response)
		if len(chapters) != 2 {
			t.Fatalf("len(ChapterPlan) = %d, want 2", len(chapters))
		}
		if chapters[0].ChapterNumber != 1 || chapters[1].ChapterNumber != 2 {
			t.Errorf("numbers = %d, %d; want sequential", chapters[0].ChapterNumber, chapters[1].ChapterNumber)
		}
		if chapters[0].Summary != "Chapter 1 content" {
			t.Errorf("Summary = %q, want placeholder", chapters[0].Summary)
		}
	})

	t.Run("caps_at_twelve", func(t *testing.T) {
		var sb strings.Builder
		for i := 1; i <= 20; i++ {
			fmt.Fprintf(&sb, "# Heading number %d\n", i)
		}
		chapters := ChapterPlan(sb.String())
		if len(chapters) != 12 {
			t.Errorf("len(ChapterPlan) = %d, want cap of 12", len(chapters))
		}
	})
}

func TestChapterContent(t *testing.T) {
	long := strings.Repeat("The gears turned slowly in the dark. ", 5)

	t.Run("strips_header", func(t *testing.T) {
		got := ChapterContent("**Chapter Content:** " + long)
		if strings.Contains(got, "Chapter Content") {
			t.Errorf("header not stripped: %q", got)
		}
		if !strings.Contains(got, "The gears turned") {
			t.Errorf("content lost: %q", got)
		}
	})

	t.Run("short_text_returned_whole", func(t *testing.T) {
		if got := ChapterContent("  brief  "); got != "brief" {
			t.Errorf("ChapterContent() = %q, want %q", got, "brief")
		}
	})
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "recommended",
			response: "1. First Idea\n2. Second Idea\n\n**Recommended Title:** \"The Unwound Hour\"",
			want:     "The Unwound Hour",
		},
		{
			name:     "numbered_list",
			response: "Here are ideas:\n1. The Unwound Hour\n2. Backward Bells",
			want:     "The Unwound Hour",
		},
		{
			name:     "title_label",
			response: "Title: Backward Bells",
			want:     "Backward Bells",
		},
		{
			name:     "first_line",
			response: "A Clockwork Memory\nand some explanation",
			want:     "A Clockwork Memory",
		},
		{
			name:     "fallback",
			response: "ok",
			want:     "Untitled Book",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.response); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
