// Package retry provides a bounded retry policy for outbound calls.
package retry

import (
	"context"
	"fmt"
	"time"

	"sarkari/ingest-service/internal/model"
)

// Policy describes a bounded retry: how many attempts, how long to wait
// between them, and which errors are worth retrying at all.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is scaled linearly: the wait before attempt n+1 is
	// BaseDelay * n.
	BaseDelay time.Duration
	// IsRetryable decides whether an error can be fixed by retrying.
	// Nil means "retry transient upstream errors only".
	IsRetryable func(error) bool
}

// Default returns the pipeline's standard policy: 3 attempts, linear
// backoff from base, transient upstream errors only.
func Default(base time.Duration) Policy {
	return Policy{MaxAttempts: 3, BaseDelay: base}
}

// Do runs fn under the policy. The first nil return wins; a
// non-retriable error is returned immediately; exhausting all attempts
// returns the last error. The wait between attempts honours ctx
// cancellation so a hung run can be abandoned.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retriable := p.IsRetryable
	if retriable == nil {
		retriable = model.IsTransient
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry abandoned: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retriable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry abandoned: %w", ctx.Err())
		case <-time.After(p.BaseDelay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
