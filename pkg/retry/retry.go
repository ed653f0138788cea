// Package retry provides bounded retry with exponential backoff for the
// processing core.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NonRetryableError wraps errors that should not be retried
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable wraps an error to indicate it should not be retried
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable checks if an error is marked as non-retryable
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// ExhaustedError is returned when every attempt has failed. It carries the
// attempt count and wraps the final attempt's failure as its cause.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Config provides retry configuration
type Config struct {
	// MaxAttempts is the number of attempts. Values <= 0 run exactly once
	// with no retry and no backoff.
	MaxAttempts int

	// BaseDelay is the time unit of the backoff schedule. The sleep after
	// failed attempt i (zero-based) is BaseDelay << i, unjittered. Zero
	// defaults to one second.
	BaseDelay time.Duration

	// AttemptTimeout bounds the duration of a single attempt via a derived
	// context. Zero means attempts are bounded only by the parent context.
	AttemptTimeout time.Duration
}

// DefaultConfig returns sensible defaults for retry operations
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// Do executes fn up to cfg.MaxAttempts times with exponential backoff between
// failed attempts. Each attempt receives a context bounded by AttemptTimeout;
// an attempt that outlives its context counts as an ordinary failure.
// The terminal failure is returned as an *ExhaustedError wrapping the last
// attempt's error; earlier failures are not surfaced.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	if cfg.BaseDelay < 0 {
		return errors.New("retry: BaseDelay cannot be negative")
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1 // At least try once
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		err := runAttempt(ctx, cfg.AttemptTimeout, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		// Non-retryable failures cross the boundary immediately
		if IsNonRetryable(err) {
			return err
		}

		if ctx.Err() != nil {
			return fmt.Errorf("retry cancelled after attempt %d: %w", attempt+1, ctx.Err())
		}

		// Don't sleep after the last attempt
		if attempt == attempts-1 {
			break
		}

		// Backoff is attempt-indexed: BaseDelay * 2^attempt, no jitter
		timer := time.NewTimer(cfg.BaseDelay << attempt)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled during backoff for attempt %d: %w", attempt+2, ctx.Err())
		case <-timer.C:
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// runAttempt invokes fn under a context bounded by timeout, if one is set.
func runAttempt(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

// DoWithResult executes fn with retry and returns both result and error
func DoWithResult[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func(attemptCtx context.Context) error {
		var innerErr error
		result, innerErr = fn(attemptCtx)
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
