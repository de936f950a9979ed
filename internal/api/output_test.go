package api

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"name": "booksmith", "port": 8765}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, `"name": "booksmith"`) {
			t.Errorf("json output = %q", out)
		}
		if !strings.HasPrefix(out, "{\n") {
			t.Errorf("json output not indented: %q", out)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "name: booksmith") {
			t.Errorf("yaml output = %q", out)
		}
		if !strings.Contains(out, "port: 8765") {
			t.Errorf("yaml output = %q", out)
		}
	})

	t.Run("unknown_format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormat("toml"), data); err == nil {
			t.Error("OutputTo() = nil, want error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	t.Cleanup(func() { globalOutputFormat = DefaultOutput })

	SetOutputFormat("json")
	if GetOutputFormat() != OutputFormatJSON {
		t.Errorf("GetOutputFormat() = %q, want json", GetOutputFormat())
	}

	SetOutputFormat("yaml")
	if GetOutputFormat() != OutputFormatYAML {
		t.Errorf("GetOutputFormat() = %q, want yaml", GetOutputFormat())
	}

	SetOutputFormat("bogus")
	if GetOutputFormat() != DefaultOutput {
		t.Errorf("GetOutputFormat() = %q, want default", GetOutputFormat())
	}
}
