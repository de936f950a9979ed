// Package llm wraps LLM vendor calls in a uniform envelope: request
// timeout, bounded retry with fixed delay, and optional JSON-schema
// enforcement for structured output.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/jackzampolin/booksmith/internal/schema"
)

// Backend is the abstraction the writing agent drives. Implementations
// wrap a single vendor; the orchestrator owns exactly one instance and
// receives it through its constructor.
type Backend interface {
	// Generate produces free text for a prompt.
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (string, error)

	// GenerateStructured produces output constrained by the given schema.
	// On success the result is json.RawMessage; when schema enforcement is
	// disabled and validation fails, it degrades to the raw response text.
	GenerateStructured(ctx context.Context, prompt string, s *schema.Schema, opts *GenerateOptions) (any, error)

	// SupportsStructuredOutput reports whether GenerateStructured can
	// constrain output server-side. Callers must check this and fall back
	// to text parsing when false.
	SupportsStructuredOutput() bool

	// Name returns the backend identifier (e.g., "openai").
	Name() string
}

// GenerateOptions overrides per-call generation parameters. A nil options
// value uses the backend's configured defaults.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

func (o *GenerateOptions) maxTokens(def int) int {
	if o != nil && o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return def
}

func (o *GenerateOptions) temperature(def float64) float64 {
	if o != nil && o.Temperature > 0 {
		return o.Temperature
	}
	return def
}

// ErrorKind is a coarse user-facing failure category. It only affects
// progress message text, never control flow.
type ErrorKind string

const (
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindRateLimit ErrorKind = "rate_limit"
	ErrorKindGeneric   ErrorKind = "generic"
)

// Classify buckets an error into a user-facing category.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindGeneric
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline exceeded"):
		return ErrorKindTimeout
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return ErrorKindRateLimit
	default:
		return ErrorKindGeneric
	}
}
