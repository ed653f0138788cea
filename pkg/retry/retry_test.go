package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_Success(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}

	attempts := 0
	err := Do(ctx, cfg, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient error")
		}
		return nil // Success on third attempt
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}

	boom := errors.New("persistent error")
	attempts := 0
	err := Do(ctx, cfg, func(context.Context) error {
		attempts++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "failed after 3 attempts")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, boom)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 0, BaseDelay: time.Hour} // sleep would hang the test

	attempts := 0
	start := time.Now()
	err := Do(ctx, cfg, func(context.Context) error {
		attempts++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRetry_NonRetryableFailsImmediately(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 5, BaseDelay: 10 * time.Millisecond}

	attempts := 0
	err := Do(ctx, cfg, func(context.Context) error {
		attempts++
		return NonRetryable(errors.New("bad input"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, IsNonRetryable(err))
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond}

	attempts := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel() // Cancel during backoff
	}()

	err := Do(ctx, cfg, func(context.Context) error {
		attempts++
		return errors.New("error")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
	assert.Less(t, attempts, 5) // Should not complete all attempts
}

func TestRetry_BackoffTiming(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}

	start := time.Now()
	attempts := 0
	_ = Do(ctx, cfg, func(context.Context) error {
		attempts++
		return errors.New("error")
	})
	elapsed := time.Since(start)

	// Sleeps: 20ms (2^0) + 40ms (2^1) = 60ms minimum; no sleep after the last attempt.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)
	assert.Equal(t, 3, attempts)
}

func TestRetry_AttemptTimeout(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxAttempts:    2,
		BaseDelay:      10 * time.Millisecond,
		AttemptTimeout: 25 * time.Millisecond,
	}

	attempts := 0
	err := Do(ctx, cfg, func(attemptCtx context.Context) error {
		attempts++
		select {
		case <-attemptCtx.Done():
			return attemptCtx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	// A timed-out attempt is an ordinary failure counted against MaxAttempts.
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithResult(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}

	attempts := 0
	result, err := DoWithResult(ctx, cfg, func(context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("not yet")
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 2, attempts)
}

func TestDoWithResult_FailureReturnsZeroValue(t *testing.T) {
	ctx := context.Background()
	cfg := Config{MaxAttempts: 1, BaseDelay: time.Millisecond}

	result, err := DoWithResult(ctx, cfg, func(context.Context) (string, error) {
		return "partial", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, "", result) // no partial result crosses the boundary
}
