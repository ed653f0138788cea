// Package engine implements the record processing core: a single-stage
// pipeline that validates a unit of work, serves a cached result when one
// exists, otherwise executes an injected operation with bounded retries and
// exponential backoff, and records outcome metrics.
//
// # Processing sequence
//
// Within one Process call the steps run strictly in order:
//
//	validate → cache lookup → execute/retry → cache store → metrics update
//
// Validation is a hard gate: a rejected record never reaches the cache or
// the operation. A cache hit returns the stored result unchanged and skips
// execution entirely - the engine is deliberately staleness-tolerant, which
// is safe because its configuration (including the metadata echoed into
// results) is immutable for the engine's lifetime.
//
// # Failure handling
//
// The operation is opaque and every failure it returns is retryable. The
// retry loop runs up to MaxRetries attempts with an unjittered 2^attempt
// backoff between failures; each attempt is bounded by the configured
// timeout through its context. Only the terminal failure crosses the
// engine's boundary, as a transient-classified error wrapping
// errors.ErrMaxRetriesExceeded with the final attempt's error as its cause.
// Attempt outcomes inside the loop are plain error values - there is no
// panic-based control flow.
//
// # Construction
//
//	eng, err := engine.New(config.Default(), myOperation,
//	    engine.WithLogger(logger),
//	    engine.WithMetricsRegistry(registry, "ingest"))
//
// NewFromMap accepts a dynamic key/value map instead of a Config and
// rejects unknown keys at construction.
package engine
