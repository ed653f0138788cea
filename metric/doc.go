// Package metric provides the processing core's metrics sink and its
// Prometheus export surface.
//
// The Sink holds the three engine counters (processed, failed, cache hits)
// as atomics, so concurrent units of work increment them without lost
// updates, and exposes them through Snapshot as an immutable copy. A sink
// built with NewSinkWithRegistry additionally mirrors every increment into
// Prometheus counters plus a processing-duration histogram.
//
// MetricsRegistry wraps a private prometheus.Registry with duplicate
// registration detection, and Server exposes it over HTTP via promhttp for
// external telemetry scraping. The wire format of that export belongs to
// Prometheus, not to this core.
package metric
