// Package retry implements the bounded retry loop used by the processing
// engine: a fixed number of attempts with unjittered exponential backoff
// (BaseDelay doubling per zero-based attempt index) and an optional
// per-attempt timeout applied through a derived context.
//
// Attempt outcomes are ordinary error values inspected by the loop; only the
// terminal failure crosses the package boundary, as an *ExhaustedError
// wrapping the last attempt's error. Errors wrapped with NonRetryable skip
// the remaining attempts.
//
//	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, BaseDelay: time.Second}, func(ctx context.Context) error {
//	    return callFlakyThing(ctx)
//	})
//
// DoWithResult is the generic variant for operations that produce a value.
package retry
