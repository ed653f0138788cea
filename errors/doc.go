// Package errors provides standardized error handling patterns for flowproc.
//
// # Overview
//
// The errors package implements a three-class error classification system for
// the processing core: Transient (temporary, retryable), Invalid (bad input or
// configuration, non-retryable), and Fatal (unrecoverable, stop processing).
//
// Classification lets the engine and batch dispatcher make retry decisions
// without hardcoded error string matching, and maps directly onto the core's
// error taxonomy:
//
//   - validation failures are Invalid errors wrapping ErrInvalidRecord
//   - retry exhaustion is a Transient error wrapping ErrMaxRetriesExceeded,
//     with the final attempt's failure as its cause
//   - construction failures are Invalid errors wrapping ErrInvalidConfig or
//     ErrUnknownConfigKey
//   - dispatching without an engine is an Invalid error wrapping ErrNoEngine
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if rec.ID == "" {
//	    return errors.ErrInvalidRecord
//	}
//
// Wrap errors with context for debugging:
//
//	if err := op(ctx, rec, cfg); err != nil {
//	    return errors.WrapTransient(err, "Engine", "Process", "execute operation")
//	}
//
// Check classification for handling decisions:
//
//	if errors.IsInvalid(err) {
//	    // do not retry, surface to caller
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// The Wrap family of functions applies this pattern while attaching the
// classification, which is preserved through errors.Is/errors.As chains.
package errors
