// Package types defines the shared record types that flow through the
// processing core: the caller-owned input record, the immutable result
// record, and the per-item batch outcome.
package types

import "strconv"

// InputRecord is a unit of work submitted to the engine. The engine never
// mutates it; callers retain ownership.
type InputRecord struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// CacheKey derives the deterministic identity used to detect repeat
// submissions: the record id joined with the string form of its timestamp.
func (r InputRecord) CacheKey() string {
	return r.ID + ":" + strconv.FormatInt(r.Timestamp, 10)
}

// ResultRecord is the immutable product of one successful execution.
// Data echoes the operation output (or payload), ProcessedAt is an
// RFC3339 UTC stamp, and Config echoes the engine's configuration metadata
// at processing time.
type ResultRecord struct {
	Success     bool           `json:"success"`
	Data        any            `json:"data"`
	ProcessedAt string         `json:"processed_at"`
	Config      map[string]any `json:"config"`
}

// ItemResult is one slot of a batch outcome. Exactly one of Result or Err is
// meaningful: a nil Err means Result holds a successful ResultRecord.
type ItemResult struct {
	Result ResultRecord `json:"result,omitempty"`
	Err    error        `json:"-"`
}

// Ok reports whether this slot completed successfully.
func (ir ItemResult) Ok() bool {
	return ir.Err == nil
}
