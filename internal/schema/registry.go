// Package schema holds the JSON schemas used to constrain structured LLM
// output for each generation step.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema is one named structured-output descriptor.
type Schema struct {
	Name string          // Output kind (e.g., "chapter_plan")
	Raw  json.RawMessage // JSON schema document
}

// registry lists every schema the pipeline knows about. These names are
// the expected-kind values accepted by the structured output validator.
var registry = []string{
	"story_summary",
	"title",
	"character",
	"chapter_plan",
	"chapter_content",
}

// All returns every schema, sorted by name. Schemas are loaded from the
// embedded .json files.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, name := range registry {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, n := range registry {
		if n != name {
			continue
		}
		content, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		return &Schema{Name: name, Raw: content}, nil
	}
	return nil, fmt.Errorf("schema not found: %s (available: %v)", name, registry)
}

// Names returns the registered schema names.
func Names() []string {
	names := make([]string, len(registry))
	copy(names, registry)
	return names
}

// PromptInstruction returns the text appended to a prompt when a backend
// cannot constrain output server-side and must be told to emit JSON.
func (s *Schema) PromptInstruction() string {
	return fmt.Sprintf(`

IMPORTANT: Respond with valid JSON that matches this exact schema:
%s

Your response must be valid JSON only, no additional text or formatting.`, string(s.Raw))
}
