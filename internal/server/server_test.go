package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackzampolin/booksmith/internal/config"
	"github.com/jackzampolin/booksmith/internal/llm"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{
		Backend: llm.NewMockBackend(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := testServer(t)
	if s.Addr() != "127.0.0.1:8765" {
		t.Errorf("Addr() = %q", s.Addr())
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if s.Books() == nil {
		t.Error("Books() = nil")
	}
	if s.Agent() == nil {
		t.Error("Agent() = nil")
	}
}

func TestNew_RequiresBackendOrConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() = nil error without backend or config manager")
	}
}

func TestServer_HealthRoute(t *testing.T) {
	s := testServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestServer_StatusRoute(t *testing.T) {
	s := testServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status error = %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["backend"] != llm.MockName {
		t.Errorf("backend = %v, want %q", body["backend"], llm.MockName)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	s := testServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBackendFromConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := config.DefaultConfig()

	backend := BackendFromConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if backend.Name() != llm.OpenAIName {
		t.Errorf("Name() = %q, want %q", backend.Name(), llm.OpenAIName)
	}
	if !backend.SupportsStructuredOutput() {
		t.Error("SupportsStructuredOutput() = false, want true with JSON mode default")
	}
}
