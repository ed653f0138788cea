// Package timestamp provides standardized timestamp handling for the
// processing core.
//
// Result records carry their processing instant as an RFC3339 string in UTC;
// this package is the single place that formats and parses those stamps so
// the representation cannot drift between the engine and its consumers.
//
// Zero Value Semantics:
//   - A zero time.Time formats to the empty string
//   - The empty string parses to the zero time.Time
package timestamp

import (
	"time"
)

// Now returns the current instant formatted as an RFC3339 UTC stamp.
func Now() string {
	return Stamp(time.Now())
}

// Stamp formats a time.Time as an RFC3339 string in UTC.
// Returns the empty string for the zero time.
func Stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseStamp parses an RFC3339 stamp back into a time.Time.
// Returns the zero time for the empty string or unparseable input.
func ParseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsZero checks whether a stamp is unset or unparseable.
func IsZero(s string) bool {
	return ParseStamp(s).IsZero()
}
