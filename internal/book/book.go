// Package book provides the data records for a generated book.
// This package has no dependencies on other booksmith packages to avoid import cycles.
package book

import "strings"

// Book holds everything known about a book being generated.
// The generation pipeline populates fields in order: story summary first,
// then title/characters, then the chapter plan, then per-chapter content.
type Book struct {
	BasePrompt     string      `json:"base_prompt" yaml:"base_prompt"`
	Language       string      `json:"language" yaml:"language"`
	WritingStyle   string      `json:"writing_style" yaml:"writing_style"`
	Genre          string      `json:"genre" yaml:"genre"`
	TargetAudience string      `json:"target_audience" yaml:"target_audience"`
	Title          string      `json:"title" yaml:"title"`
	StorySummary   string      `json:"story_summary" yaml:"story_summary"`
	Characters     []Character `json:"characters" yaml:"characters"`
	Chapters       []Chapter   `json:"chapters" yaml:"chapters"`
}

// Character is a character in the book.
type Character struct {
	Name            string `json:"name" yaml:"name"`
	BackgroundStory string `json:"background_story" yaml:"background_story"`
	Appearance      string `json:"appearance" yaml:"appearance"`
	Personality     string `json:"personality" yaml:"personality"`
	Role            string `json:"role" yaml:"role"`
}

// Chapter is one planned (and eventually written) chapter.
type Chapter struct {
	ChapterNumber int    `json:"chapter_number" yaml:"chapter_number"`
	Title         string `json:"title" yaml:"title"`
	Summary       string `json:"summary" yaml:"summary"`
	Content       string `json:"content" yaml:"content"`
	// KeyCharacters holds character names, matched against Character.Name
	// by value. Names are not guaranteed unique, so two characters sharing
	// a name are indistinguishable here.
	KeyCharacters []string `json:"key_characters" yaml:"key_characters"`
	PlotPoints    []string `json:"plot_points" yaml:"plot_points"`
}

// New creates a Book from a seed prompt with default metadata.
func New(basePrompt string) *Book {
	return &Book{
		BasePrompt:     basePrompt,
		Language:       "english",
		WritingStyle:   "descriptive",
		Genre:          "fantasy",
		TargetAudience: "young adults",
	}
}

// Chapter returns the chapter with the given number, or nil.
func (b *Book) Chapter(number int) *Chapter {
	for i := range b.Chapters {
		if b.Chapters[i].ChapterNumber == number {
			return &b.Chapters[i]
		}
	}
	return nil
}

// CompletedChapters returns how many chapters have content.
func (b *Book) CompletedChapters() int {
	n := 0
	for i := range b.Chapters {
		if b.Chapters[i].Content != "" {
			n++
		}
	}
	return n
}

// WordCount returns the total word count across written chapters.
func (b *Book) WordCount() int {
	total := 0
	for i := range b.Chapters {
		if b.Chapters[i].Content != "" {
			total += len(strings.Fields(b.Chapters[i].Content))
		}
	}
	return total
}
