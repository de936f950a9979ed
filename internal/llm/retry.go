package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy bounds transient-failure retries: up to MaxRetries additional
// attempts after the first, with a fixed Delay between attempts. Sleep is
// injectable for tests; when nil it blocks the calling goroutine but still
// honors context cancellation.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
	Sleep      func(time.Duration)
}

// DefaultRetryPolicy matches the envelope defaults: three retries, five
// seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Delay: 5 * time.Second}
}

// Do runs fn up to MaxRetries+1 times. Each intermediate failure is logged
// and followed by a fixed delay; callers only ever see the final aggregate
// error naming the operation and the last underlying cause.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, operation string, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	attempts := p.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			logger.Warn("operation failed, retrying",
				"operation", operation,
				"attempt", attempt,
				"max_attempts", attempts,
				"retry_delay", p.Delay,
				"error", lastErr,
			)
			p.sleep(ctx, p.Delay)
		} else {
			logger.Error("operation failed after all retries",
				"operation", operation,
				"attempts", attempts,
				"error", lastErr,
			)
		}
	}

	return fmt.Errorf("failed to complete %s after %d attempts: %w", operation, attempts, lastErr)
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
