// Package validate turns raw structured LLM output into typed book records.
//
// Input may be a JSON-encoded string or an already-decoded map. Character
// and chapter batches are validated element by element: a strict mapping is
// tried first, then an auto-correction pass (see correct.go), and only an
// element that fails both is recorded as an error. Elements are independent,
// so one bad character does not discard the rest of the batch.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackzampolin/booksmith/internal/book"
)

// Expected-kind names, matching the schema registry.
const (
	KindStorySummary   = "story_summary"
	KindTitle          = "title"
	KindCharacter      = "character"
	KindChapterPlan    = "chapter_plan"
	KindChapterContent = "chapter_content"
)

// Minimum lengths for scalar outputs, after trimming.
const (
	minSummaryLen = 10
	minContentLen = 50
	minTitleLen   = 3
)

// Result reports the outcome of validating one LLM response.
type Result struct {
	// Success is false only when nothing usable was produced.
	Success bool
	// Corrected is true if any element needed the auto-correction pass.
	// Callers use it for logging; it never changes control flow.
	Corrected bool
	// Errors holds one message per element (or response) that failed.
	Errors []string

	// Exactly one of the following is populated, depending on the kind.
	Text       string
	Characters []book.Character
	Chapters   []book.Chapter
}

// ValidateAndParse validates raw model output against the expected kind.
// response may be a string (parsed as JSON first), a map, or raw JSON bytes.
func ValidateAndParse(response any, kind string) *Result {
	decoded, err := decode(response)
	if err != nil {
		return &Result{Success: false, Errors: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}

	switch kind {
	case KindCharacter:
		return validateCharacters(decoded)
	case KindChapterPlan:
		return validateChapters(decoded)
	case KindStorySummary:
		return validateScalar(decoded, "story_summary", minSummaryLen, "story summary")
	case KindChapterContent:
		return validateScalar(decoded, "content", minContentLen, "chapter content")
	case KindTitle:
		return validateTitle(decoded)
	default:
		return &Result{Success: false, Errors: []string{fmt.Sprintf("unknown validation kind: %s", kind)}}
	}
}

// decode normalizes the response into decoded JSON values.
func decode(response any) (any, error) {
	switch v := response.(type) {
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	case []byte:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	default:
		return v, nil
	}
}

// elementList normalizes single-object, wrapped-list, and bare-list shapes
// into a list of element maps. wrapKey is "characters" or "chapters".
func elementList(decoded any, wrapKey string) ([]map[string]any, error) {
	var raw []any
	switch v := decoded.(type) {
	case map[string]any:
		if inner, ok := v[wrapKey]; ok {
			list, ok := inner.([]any)
			if !ok {
				return nil, fmt.Errorf("%q field is not a list", wrapKey)
			}
			raw = list
		} else {
			// A single element, not wrapped.
			return []map[string]any{v}, nil
		}
	case []any:
		raw = v
	default:
		return nil, fmt.Errorf("expected object or list, got %T", decoded)
	}

	elems := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		elems = append(elems, m)
	}
	return elems, nil
}

func validateCharacters(decoded any) *Result {
	elems, err := elementList(decoded, "characters")
	if err != nil {
		return &Result{Success: false, Errors: []string{err.Error()}}
	}

	res := &Result{}
	for i, elem := range elems {
		ch, corrected, err := characterFromMap(elem)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("character %d: %v", i, err))
			continue
		}
		if corrected {
			res.Corrected = true
		}
		res.Characters = append(res.Characters, *ch)
	}
	res.Success = len(res.Characters) > 0 || len(res.Errors) == 0
	return res
}

func validateChapters(decoded any) *Result {
	elems, err := elementList(decoded, "chapters")
	if err != nil {
		return &Result{Success: false, Errors: []string{err.Error()}}
	}

	res := &Result{}
	for i, elem := range elems {
		ch, corrected, err := chapterFromMap(elem, i)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("chapter %d: %v", i+1, err))
			continue
		}
		if corrected {
			res.Corrected = true
		}
		res.Chapters = append(res.Chapters, *ch)
	}
	res.Success = len(res.Chapters) > 0 || len(res.Errors) == 0
	return res
}

func validateScalar(decoded any, field string, minLen int, label string) *Result {
	m, ok := decoded.(map[string]any)
	if !ok {
		return &Result{Success: false, Errors: []string{fmt.Sprintf("missing %q field", field)}}
	}
	raw, ok := m[field]
	if !ok {
		return &Result{Success: false, Errors: []string{fmt.Sprintf("missing %q field", field)}}
	}
	s, ok := raw.(string)
	if !ok || len(strings.TrimSpace(s)) <= minLen {
		return &Result{Success: false, Errors: []string{fmt.Sprintf("%s too short or invalid", label)}}
	}
	return &Result{Success: true, Text: strings.TrimSpace(s)}
}

func validateTitle(decoded any) *Result {
	m, ok := decoded.(map[string]any)
	if !ok {
		return &Result{Success: false, Errors: []string{"invalid title response format"}}
	}

	var title string
	if t, ok := m["recommended_title"].(string); ok {
		title = t
	} else if list, ok := m["titles"].([]any); ok && len(list) > 0 {
		if t, ok := list[0].(string); ok {
			title = t
		}
	}
	if title == "" {
		return &Result{Success: false, Errors: []string{"no title found in response"}}
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"'`))
	if len(title) <= minTitleLen {
		return &Result{Success: false, Errors: []string{"title too short or invalid"}}
	}
	return &Result{Success: true, Text: title}
}
