// Package prompts renders the per-stage generation prompts from book state.
// Builders are pure: they read the book and return text, nothing else. The
// dependency validator runs before any builder, so required fields are
// always populated here.
package prompts

import (
	"strings"
	"text/template"

	"github.com/jackzampolin/booksmith/internal/book"
)

// previousTailRunes is how much of the previous chapter's ending is quoted
// in a chapter-content prompt to keep prose continuous across the boundary.
const previousTailRunes = 1500

var storySummaryTmpl = template.Must(template.New("story_summary").Parse(`You are a professional book editor and story developer. Create a detailed story summary based on the following prompt.

**Original Prompt:** {{.BasePrompt}}

**Book Details:**
- Genre: {{.Genre}}
- Writing Style: {{.WritingStyle}}
- Target Audience: {{.TargetAudience}}
- Language: {{.Language}}

**Instructions:**
1. Expand the original prompt into a comprehensive story summary (300-500 words)
2. Include the main plot, central conflict, and resolution approach
3. Ensure the story fits the specified genre and target audience
4. Write in {{.Language}}

**Story Summary:**
`))

var charactersTmpl = template.Must(template.New("characters").Parse(`You are a character development expert. Based on the story summary below, create detailed character profiles.

**Story Summary:** {{.StorySummary}}

**Book Details:**
- Genre: {{.Genre}}
- Target Audience: {{.TargetAudience}}
- Writing Style: {{.WritingStyle}}

**Instructions:**
Create 3-5 main characters for this story. For each character, provide:
1. Name
2. Background story (2-3 sentences)
3. Physical appearance (2-3 sentences)
4. Personality traits (2-3 sentences)
5. Role in the story

Format each character as:
**Character Name:** [Name]
**Background:** [Background story]
**Appearance:** [Physical description]
**Personality:** [Personality traits]
**Role:** [Their role in the story]

---

**Characters:**
`))

var chapterPlanTmpl = template.Must(template.New("chapter_plan").Parse(`You are a professional book planner. Create a detailed chapter outline for the following story.

**Story Summary:** {{.StorySummary}}

**Characters:**
{{range .Characters}}- {{.Name}}: {{.Personality}}
{{end}}
**Book Details:**
- Genre: {{.Genre}}
- Target Audience: {{.TargetAudience}}
- Target Length: 8-12 chapters

**Instructions:**
Create a chapter-by-chapter outline. For each chapter, provide:
1. Chapter number and title
2. Chapter summary (3-4 sentences describing what happens)
3. Key characters involved
4. Important plot points

Format as:
**Chapter X: [Title]**
**Summary:** [What happens in this chapter]
**Characters:** [Main characters in this chapter]
**Plot Points:** [Key events]

**Chapter Outline:**
`))

type chapterContentData struct {
	*book.Book
	Chapter       *book.Chapter
	OutlineSoFar  []book.Chapter
	PreviousTail  string
	KeyCharacters []book.Character
}

var chapterContentTmpl = template.Must(template.New("chapter_content").Parse(`You are a professional {{.Genre}} author. Write the full content for this chapter of the book.

**Story Context:**
{{.StorySummary}}

**Chapter Outline:**
{{range .OutlineSoFar}}- Chapter {{.ChapterNumber}}: {{.Title}} — {{.Summary}}
{{end}}
**Chapter Details:**
- Chapter {{.Chapter.ChapterNumber}}: {{.Chapter.Title}}
- Chapter Summary: {{.Chapter.Summary}}
{{if .Chapter.PlotPoints}}- Plot Points:
{{range .Chapter.PlotPoints}}  - {{.}}
{{end}}{{end}}
**Characters in this chapter:**
{{range .KeyCharacters}}- {{.Name}}: {{.Personality}}
{{end}}
{{if .PreviousTail}}**End of the previous chapter (continue seamlessly from here):**
{{.PreviousTail}}

{{end}}**Writing Guidelines:**
- Genre: {{.Genre}}
- Writing Style: {{.WritingStyle}}
- Target Audience: {{.TargetAudience}}
- Language: {{.Language}}
- Length: 1500-2500 words
- Use descriptive, engaging prose
- Include dialogue where appropriate
- Maintain consistency with the story summary and character personalities

**Chapter Content:**
`))

var titleTmpl = template.Must(template.New("title").Parse(`You are a book marketing expert. Create an engaging title for this book.

**Story Summary:** {{.StorySummary}}

**Book Details:**
- Genre: {{.Genre}}
- Target Audience: {{.TargetAudience}}

**Instructions:**
Generate 5 potential book titles that are:
1. Engaging and memorable
2. Appropriate for the {{.Genre}} genre
3. Appealing to {{.TargetAudience}}
4. Reflective of the story content

**Titles:**
1.
2.
3.
4.
5.

**Recommended Title:** [Pick the best one and explain why]
`))

// StorySummary builds the summary-stage prompt.
func StorySummary(b *book.Book) string {
	return render(storySummaryTmpl, b)
}

// Characters builds the character-stage prompt.
func Characters(b *book.Book) string {
	return render(charactersTmpl, b)
}

// ChapterPlan builds the outline-stage prompt.
func ChapterPlan(b *book.Book) string {
	return render(chapterPlanTmpl, b)
}

// Title builds the title-stage prompt.
func Title(b *book.Book) string {
	return render(titleTmpl, b)
}

// ChapterContent builds the content prompt for one chapter. It carries the
// whole outline, the tail of the previous chapter's prose, and the profiles
// of the chapter's key characters so consecutive chapters stay coherent.
func ChapterContent(b *book.Book, ch *book.Chapter) string {
	data := chapterContentData{
		Book:          b,
		Chapter:       ch,
		OutlineSoFar:  b.Chapters,
		PreviousTail:  previousChapterTail(b, ch.ChapterNumber),
		KeyCharacters: chapterCharacters(b, ch),
	}
	return render(chapterContentTmpl, data)
}

// chapterCharacters resolves a chapter's key character names against the
// book's character list. Matching is by name string; with no key characters
// listed, all characters are included.
func chapterCharacters(b *book.Book, ch *book.Chapter) []book.Character {
	if len(ch.KeyCharacters) == 0 {
		return b.Characters
	}
	var out []book.Character
	for _, name := range ch.KeyCharacters {
		for i := range b.Characters {
			if strings.EqualFold(b.Characters[i].Name, name) {
				out = append(out, b.Characters[i])
				break
			}
		}
	}
	if len(out) == 0 {
		return b.Characters
	}
	return out
}

func previousChapterTail(b *book.Book, chapterNumber int) string {
	prev := b.Chapter(chapterNumber - 1)
	if prev == nil || prev.Content == "" {
		return ""
	}
	runes := []rune(prev.Content)
	if len(runes) <= previousTailRunes {
		return prev.Content
	}
	return "..." + string(runes[len(runes)-previousTailRunes:])
}

func render(tmpl *template.Template, data any) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		// Templates only reference struct fields; execution cannot fail
		// with well-formed data. Return what was rendered so far.
		return sb.String()
	}
	return sb.String()
}
