package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	var result map[string]string
	if err := NewClient(srv.URL).Get(context.Background(), "/health", &result); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("status = %q", result["status"])
	}
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"echo": body["base_prompt"]})
	}))
	defer srv.Close()

	var result map[string]string
	err := NewClient(srv.URL).Post(context.Background(), "/api/books",
		map[string]string{"base_prompt": "a story"}, &result)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if result["echo"] != "a story" {
		t.Errorf("echo = %q", result["echo"])
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "book not found"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Get(context.Background(), "/api/books/nope", nil)
	if err == nil {
		t.Fatal("Get() = nil, want error")
	}
	if !strings.Contains(err.Error(), "server error (404): book not found") {
		t.Errorf("error = %q", err)
	}
}

func TestClient_Delete(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Delete(context.Background(), "/api/books/abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !called {
		t.Error("server not called")
	}
}

func TestClient_WaitReady(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "starting"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
