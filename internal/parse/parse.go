// Package parse extracts book artifacts from unstructured LLM text.
//
// This is the fallback path used when a backend cannot produce structured
// output or structured validation fails. Every parser is ordered
// first-match-wins over regex alternatives and always returns a best-effort
// value; none of them can fail.
package parse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jackzampolin/booksmith/internal/book"
)

const (
	// maxFallbackCharacters caps the line-scan character heuristic.
	maxFallbackCharacters = 5
	// maxFallbackChapters caps the line-scan chapter heuristic.
	maxFallbackChapters = 12
)

var summaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:\*\*)?Story Summary:?(?:\*\*)?:?\s*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)Summary:?\s*(.*?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?s)\A(.*?)(?:\n\n|\z)`),
}

// StorySummary extracts a story summary, preferring labeled sections and
// falling back to the first paragraph, then the whole trimmed text.
func StorySummary(response string) string {
	trimmed := strings.TrimSpace(response)
	for _, pattern := range summaryPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			summary := strings.TrimSpace(m[1])
			if len(summary) > 50 {
				return summary
			}
		}
	}
	return trimmed
}

var characterBlockPattern = regexp.MustCompile(
	`(?i)\*\*Character Name:\*\*\s*([^\n]+)\s*\*\*Background:\*\*\s*([^\n*]+)\s*\*\*Appearance:\*\*\s*([^\n*]+)\s*\*\*Personality:\*\*\s*([^\n*]+)`)

// Characters extracts character profiles. The primary pattern expects the
// bold block format the character prompt asks for; when nothing matches, a
// line-scan heuristic looks for name-like headers and accumulates the
// following lines as description.
func Characters(response string) []book.Character {
	var characters []book.Character
	for _, m := range characterBlockPattern.FindAllStringSubmatch(response, -1) {
		characters = append(characters, book.Character{
			Name:            strings.TrimSpace(m[1]),
			BackgroundStory: strings.TrimSpace(m[2]),
			Appearance:      strings.TrimSpace(m[3]),
			Personality:     strings.TrimSpace(m[4]),
		})
	}
	if len(characters) == 0 {
		characters = charactersFallback(response)
	}
	return characters
}

func charactersFallback(response string) []book.Character {
	var characters []book.Character
	var name, desc string

	flush := func(last bool) {
		if name == "" {
			return
		}
		c := book.Character{
			Name:            name,
			BackgroundStory: "No background provided",
			Appearance:      "No description provided",
			Personality:     "No personality described",
		}
		if last {
			d := strings.TrimSpace(desc)
			if d == "" {
				d = "No description provided"
			}
			c.BackgroundStory = truncate(d, 100)
			c.Personality = truncate(d, 100)
		}
		characters = append(characters, c)
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if looksLikeNameHeader(line) {
			flush(false)
			name = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(line, "*", ""), "Character:", ""))
			desc = ""
		} else if name != "" {
			desc += " " + line
		}
	}
	flush(true)

	if len(characters) > maxFallbackCharacters {
		characters = characters[:maxFallbackCharacters]
	}
	return characters
}

func looksLikeNameHeader(line string) bool {
	if strings.Contains(line, "**") && !strings.Contains(line, ":") {
		return true
	}
	if isAllUpper(line) {
		return true
	}
	return strings.HasPrefix(line, "Character")
}

// isAllUpper reports whether line has letters and none of them lowercase.
func isAllUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

var chapterBlockPattern = regexp.MustCompile(
	`(?i)\*\*Chapter\s+(\d+):\s*([^\n*]+)\*\*\s*\*\*Summary:\*\*\s*([^\n*]+)`)

// ChapterPlan extracts a chapter outline. The primary pattern expects the
// bold "**Chapter N: Title**" format; the fallback scans for chapter-like
// lines and assigns sequential numbers.
func ChapterPlan(response string) []book.Chapter {
	var chapters []book.Chapter
	for _, m := range chapterBlockPattern.FindAllStringSubmatch(response, -1) {
		num := 0
		fmt.Sscanf(m[1], "%d", &num)
		if num == 0 {
			continue
		}
		chapters = append(chapters, book.Chapter{
			ChapterNumber: num,
			Title:         strings.TrimSpace(m[2]),
			Summary:       strings.TrimSpace(m[3]),
		})
	}
	if len(chapters) == 0 {
		chapters = chaptersFallback(response)
	}
	return chapters
}

func chaptersFallback(response string) []book.Chapter {
	var chapters []book.Chapter
	num := 1
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		isChapterLine := strings.Contains(strings.ToLower(line), "chapter") && strings.Contains(line, ":")
		if !isChapterLine && !strings.HasPrefix(line, "#") {
			continue
		}

		title := line
		for _, junk := range []string{"#", "Chapter", ":"} {
			title = strings.ReplaceAll(title, junk, "")
		}
		title = strings.TrimSpace(title)
		if len(title) > 3 {
			chapters = append(chapters, book.Chapter{
				ChapterNumber: num,
				Title:         title,
				Summary:       fmt.Sprintf("Chapter %d content", num),
			})
			num++
		}
		if len(chapters) == maxFallbackChapters {
			break
		}
	}
	return chapters
}

var contentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:\*\*)?Chapter Content:?(?:\*\*)?:?\s*(.*)`),
	regexp.MustCompile(`(?is)Content:?\s*(.*)`),
	regexp.MustCompile(`(?s)\A(.*)`),
}

// ChapterContent extracts chapter prose, stripping a content header when
// enough text follows it.
func ChapterContent(response string) string {
	trimmed := strings.TrimSpace(response)
	for _, pattern := range contentPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			content := strings.TrimSpace(m[1])
			if len(content) > 100 {
				return content
			}
		}
	}
	return trimmed
}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:\*\*)?Recommended Title:?(?:\*\*)?:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)(?:\*\*)?Best Title:?(?:\*\*)?:?\s*([^\n]+)`),
	regexp.MustCompile(`\d+\.\s*([^\n]+)`),
	regexp.MustCompile(`(?i)Title:?\s*([^\n]+)`),
	regexp.MustCompile(`\A([^\n]+)`),
}

// Title extracts a book title, trying labeled candidates, then the first
// numbered list item, then the first line. Returns "Untitled Book" when
// nothing plausible is found.
func Title(response string) string {
	trimmed := strings.TrimSpace(response)
	for _, pattern := range titlePatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			title := strings.TrimSpace(m[1])
			title = strings.ReplaceAll(title, `"`, "")
			title = strings.ReplaceAll(title, "'", "")
			title = strings.TrimSpace(title)
			if len(title) > 3 && len(title) < 100 {
				return title
			}
		}
	}
	return "Untitled Book"
}
