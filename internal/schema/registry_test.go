package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(schemas) != 5 {
		t.Fatalf("len(All()) = %d, want 5", len(schemas))
	}

	for _, s := range schemas {
		t.Run(s.Name, func(t *testing.T) {
			var doc map[string]any
			if err := json.Unmarshal(s.Raw, &doc); err != nil {
				t.Fatalf("schema %s is not valid JSON: %v", s.Name, err)
			}
			if doc["type"] == nil {
				t.Errorf("schema %s has no type", s.Name)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		s, err := Get("chapter_plan")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if s.Name != "chapter_plan" {
			t.Errorf("Name = %q, want %q", s.Name, "chapter_plan")
		}
		if !strings.Contains(string(s.Raw), "chapter_number") {
			t.Error("chapter_plan schema missing chapter_number")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := Get("nope"); err == nil {
			t.Fatal("Get() = nil error for unknown schema")
		}
	})
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"story_summary", "title", "character", "chapter_plan", "chapter_content"}
	if len(names) != len(want) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPromptInstruction(t *testing.T) {
	s, err := Get("title")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	instr := s.PromptInstruction()
	if !strings.Contains(instr, "IMPORTANT: Respond with valid JSON") {
		t.Error("instruction missing JSON directive")
	}
	if !strings.Contains(instr, string(s.Raw)) {
		t.Error("instruction missing schema body")
	}
}
