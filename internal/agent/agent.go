// Package agent drives the book generation pipeline end to end: dependency
// check, prompt, backend call, structured validation with text-parse
// fallback, book mutation, progress reporting.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/booksmith/internal/book"
	"github.com/jackzampolin/booksmith/internal/llm"
	"github.com/jackzampolin/booksmith/internal/parse"
	"github.com/jackzampolin/booksmith/internal/prompts"
	"github.com/jackzampolin/booksmith/internal/schema"
	"github.com/jackzampolin/booksmith/internal/steps"
	"github.com/jackzampolin/booksmith/internal/validate"
)

// ProgressFunc receives human-readable milestone messages. Optional;
// without one, progress is logging-only.
type ProgressFunc func(message string)

// Config holds the writing agent's dependencies. Backend is required and
// explicitly owned by the agent's caller; there is no ambient global
// client.
type Config struct {
	Backend  llm.Backend
	Logger   *slog.Logger
	Progress ProgressFunc
}

// Agent writes a book by driving the generation stages in order.
type Agent struct {
	backend  llm.Backend
	logger   *slog.Logger
	progress ProgressFunc
}

// New creates a writing agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Agent{
		backend:  cfg.Backend,
		logger:   cfg.Logger,
		progress: cfg.Progress,
	}, nil
}

// Backend returns the configured backend.
func (a *Agent) Backend() llm.Backend { return a.backend }

// GenerateStorySummary generates and stores the book's story summary.
func (a *Agent) GenerateStorySummary(ctx context.Context, b *book.Book) error {
	if err := steps.Validate(b, steps.StepSummary, 0); err != nil {
		return err
	}
	a.report("🔍 Generating story summary...")

	response, err := a.generate(ctx, prompts.StorySummary(b), validate.KindStorySummary, nil)
	if err != nil {
		a.reportFailure("Story summary", err)
		return err
	}

	result := validate.ValidateAndParse(response, validate.KindStorySummary)
	if result.Success {
		a.logCorrection(validate.KindStorySummary, result)
		b.StorySummary = result.Text
	} else {
		a.logger.Warn("structured validation failed, falling back to text parsing",
			"kind", validate.KindStorySummary, "errors", result.Errors)
		b.StorySummary = parse.StorySummary(stringify(response))
	}

	a.report(fmt.Sprintf("✅ Story summary generated (%d characters)", len(b.StorySummary)))
	a.logger.Info("story summary generated", "length", len(b.StorySummary))
	return nil
}

// GenerateTitle generates and stores the book title.
func (a *Agent) GenerateTitle(ctx context.Context, b *book.Book) error {
	if err := steps.Validate(b, steps.StepTitle, 0); err != nil {
		return err
	}
	a.report("📚 Generating book title...")

	opts := &llm.GenerateOptions{MaxTokens: 300, Temperature: 0.9}
	response, err := a.generate(ctx, prompts.Title(b), validate.KindTitle, opts)
	if err != nil {
		a.reportFailure("Title", err)
		return err
	}

	result := validate.ValidateAndParse(response, validate.KindTitle)
	if result.Success {
		a.logCorrection(validate.KindTitle, result)
		b.Title = result.Text
	} else {
		a.logger.Warn("structured validation failed, falling back to text parsing",
			"kind", validate.KindTitle, "errors", result.Errors)
		b.Title = parse.Title(stringify(response))
	}

	a.report(fmt.Sprintf("✅ Book title generated: %q", b.Title))
	a.logger.Info("title generated", "title", b.Title)
	return nil
}

// GenerateCharacters generates the character list, replacing any prior one.
func (a *Agent) GenerateCharacters(ctx context.Context, b *book.Book) error {
	if err := steps.Validate(b, steps.StepCharacters, 0); err != nil {
		return err
	}
	a.report("👥 Generating characters...")

	response, err := a.generate(ctx, prompts.Characters(b), validate.KindCharacter, nil)
	if err != nil {
		a.reportFailure("Characters", err)
		return err
	}

	result := validate.ValidateAndParse(response, validate.KindCharacter)
	if result.Success && len(result.Characters) > 0 {
		a.logCorrection(validate.KindCharacter, result)
		if len(result.Errors) > 0 {
			a.logger.Warn("some characters failed validation", "errors", result.Errors)
		}
		b.Characters = result.Characters
	} else {
		a.logger.Warn("structured validation failed, falling back to text parsing",
			"kind", validate.KindCharacter, "errors", result.Errors)
		b.Characters = parse.Characters(stringify(response))
	}

	a.report(fmt.Sprintf("✅ Generated %d characters", len(b.Characters)))
	a.logger.Info("characters generated", "count", len(b.Characters))
	return nil
}

// GenerateChapterPlan generates the chapter outline, replacing any prior one.
func (a *Agent) GenerateChapterPlan(ctx context.Context, b *book.Book) error {
	if err := steps.Validate(b, steps.StepChapterPlan, 0); err != nil {
		return err
	}
	a.report("📋 Generating chapter plan...")

	response, err := a.generate(ctx, prompts.ChapterPlan(b), validate.KindChapterPlan, nil)
	if err != nil {
		a.reportFailure("Chapter plan", err)
		return err
	}

	result := validate.ValidateAndParse(response, validate.KindChapterPlan)
	if result.Success && len(result.Chapters) > 0 {
		a.logCorrection(validate.KindChapterPlan, result)
		if len(result.Errors) > 0 {
			a.logger.Warn("some chapters failed validation", "errors", result.Errors)
		}
		b.Chapters = result.Chapters
	} else {
		a.logger.Warn("structured validation failed, falling back to text parsing",
			"kind", validate.KindChapterPlan, "errors", result.Errors)
		b.Chapters = parse.ChapterPlan(stringify(response))
	}

	a.report(fmt.Sprintf("✅ Generated plan for %d chapters", len(b.Chapters)))
	a.logger.Info("chapter plan generated", "chapters", len(b.Chapters))
	return nil
}

// WriteChapterContent writes one chapter's prose. Chapters must be written
// in strictly increasing order and a chapter that already has content is
// refused; both rules are enforced by the dependency validator.
func (a *Agent) WriteChapterContent(ctx context.Context, b *book.Book, chapterNumber int) error {
	return a.writeChapter(ctx, b, chapterNumber, nil)
}

func (a *Agent) writeChapter(ctx context.Context, b *book.Book, chapterNumber int, skip map[int]bool) error {
	if err := steps.ValidateSkipping(b, steps.StepChapterContent, chapterNumber, skip); err != nil {
		return err
	}
	ch := b.Chapter(chapterNumber)
	a.report(fmt.Sprintf("✍️ Writing Chapter %d: %s", ch.ChapterNumber, ch.Title))

	opts := &llm.GenerateOptions{MaxTokens: 4000}
	response, err := a.generate(ctx, prompts.ChapterContent(b, ch), validate.KindChapterContent, opts)
	if err != nil {
		a.reportFailure(fmt.Sprintf("Chapter %d", chapterNumber), err)
		return err
	}

	result := validate.ValidateAndParse(response, validate.KindChapterContent)
	if result.Success {
		a.logCorrection(validate.KindChapterContent, result)
		ch.Content = result.Text
	} else {
		a.logger.Warn("structured validation failed, falling back to text parsing",
			"kind", validate.KindChapterContent, "errors", result.Errors)
		ch.Content = parse.ChapterContent(stringify(response))
	}

	words := wordCount(ch.Content)
	a.report(fmt.Sprintf("✅ Chapter %d written (%d words)", ch.ChapterNumber, words))
	a.logger.Info("chapter written", "chapter", ch.ChapterNumber, "words", words)
	return nil
}

// generate calls the backend through the structured path when supported,
// else plain text generation.
func (a *Agent) generate(ctx context.Context, prompt, kind string, opts *llm.GenerateOptions) (any, error) {
	if a.backend.SupportsStructuredOutput() {
		s, err := schema.Get(kind)
		if err != nil {
			return nil, err
		}
		return a.backend.GenerateStructured(ctx, prompt, s, opts)
	}
	a.logger.Info("backend lacks structured output, using text generation", "kind", kind)
	return a.backend.Generate(ctx, prompt, opts)
}

func (a *Agent) report(message string) {
	if a.progress != nil {
		a.progress(message)
	}
	a.logger.Info("progress", "message", message)
}

// reportFailure emits a friendly progress message classified by failure
// category. Classification only affects the text shown to users.
func (a *Agent) reportFailure(stage string, err error) {
	var msg string
	switch llm.Classify(err) {
	case llm.ErrorKindTimeout:
		msg = fmt.Sprintf("⏱️ %s timed out — the model took too long to respond", stage)
	case llm.ErrorKindRateLimit:
		msg = fmt.Sprintf("🚦 %s hit a rate limit — slowing down", stage)
	default:
		msg = fmt.Sprintf("❌ %s failed: %v", stage, err)
	}
	a.report(msg)
}

func (a *Agent) logCorrection(kind string, result *validate.Result) {
	if result.Corrected {
		a.logger.Info("structured output was auto-corrected during validation", "kind", kind)
	}
}

// stringify renders a raw response for the fallback text parser.
func stringify(response any) string {
	switch v := response.(type) {
	case string:
		return v
	case json.RawMessage:
		return string(v)
	case []byte:
		return string(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
