package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackzampolin/booksmith/internal/book"
)

// Alternate-key tables for the auto-correction pass. Models regularly
// rename fields ("backstory" for "background_story" and so on); these maps
// rewrite known variants to canonical keys before the second mapping
// attempt.
var characterKeyAliases = map[string]string{
	"background":           "background_story",
	"backstory":            "background_story",
	"back_story":           "background_story",
	"description":          "appearance",
	"physical_description": "appearance",
	"physical_appearance":  "appearance",
	"traits":               "personality",
	"character_name":       "name",
	"full_name":            "name",
}

var chapterKeyAliases = map[string]string{
	"number":          "chapter_number",
	"chapter":         "chapter_number",
	"chapter_title":   "title",
	"name":            "title",
	"characters":      "key_characters",
	"main_characters": "key_characters",
	"events":          "plot_points",
	"key_events":      "plot_points",
	"plot":            "plot_points",
	"description":     "summary",
	"chapter_summary": "summary",
}

// Placeholder defaults used when a required field is still missing after
// key remapping. An explicitly empty value gets the same treatment as an
// absent one; that leniency is deliberate and mirrors upstream behavior.
const unknownCharacterName = "Unknown Character"

// characterFromMap maps one element to a Character. Strict mapping first;
// on failure, the auto-correction pass remaps alternate keys and fills the
// missing name placeholder, then retries. corrected reports whether the
// second pass was needed.
func characterFromMap(m map[string]any) (*book.Character, bool, error) {
	if c, err := strictCharacter(m); err == nil {
		return c, false, nil
	}

	fixed := remapKeys(m, characterKeyAliases, characterFields)
	// Placeholder only covers an absent or empty name; a wrong-typed value
	// stays put so the element fails instead of masquerading as unknown.
	switch v := fixed["name"].(type) {
	case nil:
		fixed["name"] = unknownCharacterName
	case string:
		if strings.TrimSpace(v) == "" {
			fixed["name"] = unknownCharacterName
		}
	}
	c, err := strictCharacter(fixed)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// chapterFromMap is the chapter analogue of characterFromMap. A chapter
// number still missing after remapping defaults to the element's 1-based
// position in the batch.
func chapterFromMap(m map[string]any, index int) (*book.Chapter, bool, error) {
	if c, err := strictChapter(m); err == nil {
		return c, false, nil
	}

	fixed := remapKeys(m, chapterKeyAliases, chapterFields)
	if n, ok := intField(fixed, "chapter_number"); !ok || n < 1 {
		fixed["chapter_number"] = float64(index + 1)
	}
	if title, _ := fixed["title"].(string); strings.TrimSpace(title) == "" {
		fixed["title"] = fmt.Sprintf("Chapter %d", index+1)
	}
	c, err := strictChapter(fixed)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

var characterFields = map[string]bool{
	"name": true, "background_story": true, "appearance": true,
	"personality": true, "role": true,
}

var chapterFields = map[string]bool{
	"chapter_number": true, "title": true, "summary": true,
	"content": true, "key_characters": true, "plot_points": true,
}

// remapKeys returns a copy of m with alias keys renamed to their canonical
// form and unrecognized keys dropped. A canonical key already present wins
// over an alias.
func remapKeys(m map[string]any, aliases map[string]string, canonical map[string]bool) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if c, ok := aliases[key]; ok {
			if _, exists := m[c]; !exists {
				key = c
			}
		}
		if !canonical[key] {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = v
	}
	return out
}

// strictCharacter maps m onto a Character. It fails on unknown keys,
// non-string values, or a missing/empty name, which is what triggers the
// correction pass.
func strictCharacter(m map[string]any) (*book.Character, error) {
	var c book.Character
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q is not a string", k)
		}
		switch k {
		case "name":
			c.Name = strings.TrimSpace(s)
		case "background_story":
			c.BackgroundStory = strings.TrimSpace(s)
		case "appearance":
			c.Appearance = strings.TrimSpace(s)
		case "personality":
			c.Personality = strings.TrimSpace(s)
		case "role":
			c.Role = strings.TrimSpace(s)
		default:
			return nil, fmt.Errorf("unknown field %q", k)
		}
	}
	if c.Name == "" {
		return nil, fmt.Errorf("missing required field \"name\"")
	}
	return &c, nil
}

// strictChapter maps m onto a Chapter. Content is allowed but normally
// absent at planning time.
func strictChapter(m map[string]any) (*book.Chapter, error) {
	var c book.Chapter
	for k, v := range m {
		switch k {
		case "chapter_number":
			n, ok := jsonInt(v)
			if !ok || n < 1 {
				return nil, fmt.Errorf("field \"chapter_number\" is not a positive integer")
			}
			c.ChapterNumber = n
		case "title":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field \"title\" is not a string")
			}
			c.Title = strings.TrimSpace(s)
		case "summary":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field \"summary\" is not a string")
			}
			c.Summary = strings.TrimSpace(s)
		case "content":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field \"content\" is not a string")
			}
			c.Content = s
		case "key_characters":
			list, err := stringList(v)
			if err != nil {
				return nil, fmt.Errorf("field \"key_characters\": %w", err)
			}
			c.KeyCharacters = list
		case "plot_points":
			list, err := stringList(v)
			if err != nil {
				return nil, fmt.Errorf("field \"plot_points\": %w", err)
			}
			c.PlotPoints = list
		default:
			return nil, fmt.Errorf("unknown field %q", k)
		}
	}
	if c.ChapterNumber < 1 {
		return nil, fmt.Errorf("missing required field \"chapter_number\"")
	}
	if c.Title == "" {
		return nil, fmt.Errorf("missing required field \"title\"")
	}
	return &c, nil
}

func jsonInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return jsonInt(v)
}

func stringList(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}
