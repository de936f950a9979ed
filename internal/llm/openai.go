package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/jackzampolin/booksmith/internal/schema"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4.1"
)

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // Optional (tests, proxies)
	Model       string
	MaxTokens   int
	Temperature float64

	// JSON mode and schema enforcement for structured output.
	UseJSONMode   bool // Request a JSON-constrained response (default on via defaults)
	EnforceSchema bool // Validation failure raises instead of degrading to raw text

	Timeout           time.Duration
	Retry             RetryPolicy
	RequestsPerMinute int

	HTTPClient *http.Client // Optional (tests)
	Logger     *slog.Logger
}

// OpenAIBackend implements Backend using the official OpenAI SDK.
type OpenAIBackend struct {
	cfg     OpenAIConfig
	client  openai.Client
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.Delay == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// The envelope owns retries; don't stack SDK retries on top.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIBackend{
		cfg:     cfg,
		client:  openai.NewClient(opts...),
		limiter: NewRateLimiter(cfg.RequestsPerMinute),
		logger:  cfg.Logger,
	}
}

// Name returns the backend identifier.
func (b *OpenAIBackend) Name() string { return OpenAIName }

// SupportsStructuredOutput reports JSON-mode support.
func (b *OpenAIBackend) SupportsStructuredOutput() bool { return b.cfg.UseJSONMode }

// Generate produces free text for a prompt, retrying transient failures.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string, opts *GenerateOptions) (string, error) {
	return b.complete(ctx, "text generation", prompt, opts, false)
}

// GenerateStructured produces JSON output constrained by the given schema.
// The schema is embedded in the prompt and the vendor is asked for a
// JSON-constrained response; the parsed result is validated locally. A
// validation failure raises when EnforceSchema is set, otherwise the raw
// response text is returned as-is.
func (b *OpenAIBackend) GenerateStructured(ctx context.Context, prompt string, s *schema.Schema, opts *GenerateOptions) (any, error) {
	if s == nil || !b.cfg.UseJSONMode {
		return b.Generate(ctx, prompt, opts)
	}

	jsonPrompt := prompt + s.PromptInstruction()
	text, err := b.complete(ctx, "structured generation", jsonPrompt, opts, true)
	if err != nil {
		return nil, err
	}

	parsed, err := parseStructuredJSON(text)
	if err != nil {
		if b.cfg.EnforceSchema {
			return nil, fmt.Errorf("generated invalid JSON: %w", err)
		}
		return text, nil
	}

	if err := validateAgainstSchema(s.Raw, parsed); err != nil {
		if b.cfg.EnforceSchema {
			return nil, fmt.Errorf("response does not match %s schema: %w", s.Name, err)
		}
		b.logger.Warn("structured output failed schema validation, returning raw text",
			"schema", s.Name, "error", err)
		return text, nil
	}

	return parsed, nil
}

// complete runs one chat completion inside the rate limit + retry envelope.
func (b *OpenAIBackend) complete(ctx context.Context, operation, prompt string, opts *GenerateOptions, jsonMode bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       shared.ChatModel(b.cfg.Model),
		MaxTokens:   openai.Int(int64(opts.maxTokens(b.cfg.MaxTokens))),
		Temperature: openai.Float(opts.temperature(b.cfg.Temperature)),
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	var content string
	err := b.cfg.Retry.Do(ctx, b.logger, operation, func() error {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := b.client.Chat.Completions.New(ctx, params)
		if err != nil {
			b.record429(err)
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no choices in response")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (b *OpenAIBackend) record429(err error) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		b.limiter.Record429()
	}
}

// parseStructuredJSON parses JSON from model output, with lightweight
// recovery for markdown code fences and surrounding prose.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("empty structured output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, errors.New("failed to parse structured JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return ""
	}

	closeChar := "}"
	if trimmed[start] == '[' {
		closeChar = "]"
	}
	end := strings.LastIndex(trimmed, closeChar)
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
