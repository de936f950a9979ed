package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackzampolin/booksmith/internal/schema"
)

const MockName = "mock"

// MockBackend is a Backend for testing. Responses are scripted per schema
// kind; failures can be injected globally or per kind.
type MockBackend struct {
	mu sync.Mutex

	// Structured toggles SupportsStructuredOutput.
	Structured bool

	// Responses maps schema name -> structured response (any JSON-like
	// value or string). Missing entries fall back to TextResponse.
	Responses map[string]any

	// TextResponse is returned by Generate and by GenerateStructured for
	// kinds without a scripted response.
	TextResponse string

	// Err, when set, fails every call. FailKinds fails only the named
	// schema kinds.
	Err       error
	FailKinds map[string]error

	// Recorded calls for assertions.
	Prompts []string
	Calls   int
}

// NewMockBackend creates a mock that supports structured output and
// returns empty-ish defaults.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Structured:   true,
		Responses:    make(map[string]any),
		FailKinds:    make(map[string]error),
		TextResponse: "mock response",
	}
}

// Name returns the backend identifier.
func (m *MockBackend) Name() string { return MockName }

// SupportsStructuredOutput reports the configured capability.
func (m *MockBackend) SupportsStructuredOutput() bool { return m.Structured }

// Generate returns the scripted text response.
func (m *MockBackend) Generate(ctx context.Context, prompt string, opts *GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.TextResponse, nil
}

// GenerateStructured returns the scripted response for the schema kind.
func (m *MockBackend) GenerateStructured(ctx context.Context, prompt string, s *schema.Schema, opts *GenerateOptions) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if s != nil {
		if err, ok := m.FailKinds[s.Name]; ok {
			return nil, fmt.Errorf("mock %s failure: %w", s.Name, err)
		}
		if resp, ok := m.Responses[s.Name]; ok {
			return resp, nil
		}
	}
	return m.TextResponse, nil
}
