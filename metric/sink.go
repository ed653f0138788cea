package metric

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is an immutable copy of the sink's counters as of the call
// instant. Counters are monotonically non-decreasing within a sink's
// lifetime; reading never resets state.
type Snapshot struct {
	Processed uint64 `json:"processed"`
	Failed    uint64 `json:"failed"`
	CacheHits uint64 `json:"cache_hits"`
}

// Sink accumulates the engine's outcome counters. Increments are atomic so
// concurrent units of work never lose updates. A sink may optionally mirror
// its counters into a Prometheus registry for telemetry export.
type Sink struct {
	processed atomic.Uint64
	failed    atomic.Uint64
	cacheHits atomic.Uint64

	prom *sinkMetrics // nil unless registered
}

// sinkMetrics holds the optional Prometheus mirror of the sink counters.
type sinkMetrics struct {
	processed prometheus.Counter
	failed    prometheus.Counter
	cacheHits prometheus.Counter
	duration  prometheus.Histogram
}

// NewSink creates a sink with in-memory counters only.
func NewSink() *Sink {
	return &Sink{}
}

// NewSinkWithRegistry creates a sink that also exports its counters and a
// processing-duration histogram through the given registry. The prefix
// becomes the component label on the exported series.
func NewSinkWithRegistry(registry *MetricsRegistry, prefix string) (*Sink, error) {
	m := &sinkMetrics{
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowproc",
			Subsystem:   "records",
			Name:        "processed_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of records processed successfully",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowproc",
			Subsystem:   "records",
			Name:        "failed_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of records that failed after retry exhaustion",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowproc",
			Subsystem:   "cache",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of results served from cache",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "flowproc",
			Subsystem:   "processing",
			Name:        "duration_seconds",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Record processing duration in seconds",
			Buckets:     prometheus.DefBuckets,
		}),
	}

	if err := registry.RegisterCounter(prefix, "records_processed", m.processed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "records_failed", m.failed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_hits", m.cacheHits); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(prefix, "processing_duration", m.duration); err != nil {
		return nil, err
	}

	return &Sink{prom: m}, nil
}

// IncProcessed records one successful execution.
func (s *Sink) IncProcessed() {
	s.processed.Add(1)
	if s.prom != nil {
		s.prom.processed.Inc()
	}
}

// IncFailed records one retry-exhausted failure.
func (s *Sink) IncFailed() {
	s.failed.Add(1)
	if s.prom != nil {
		s.prom.failed.Inc()
	}
}

// IncCacheHit records one result served from cache.
func (s *Sink) IncCacheHit() {
	s.cacheHits.Add(1)
	if s.prom != nil {
		s.prom.cacheHits.Inc()
	}
}

// ObserveDuration records one processing duration, if exporting is enabled.
func (s *Sink) ObserveDuration(d time.Duration) {
	if s.prom != nil {
		s.prom.duration.Observe(d.Seconds())
	}
}

// Snapshot returns a copy of the counters. It never blocks and never resets
// state as a side effect of reading.
func (s *Sink) Snapshot() Snapshot {
	return Snapshot{
		Processed: s.processed.Load(),
		Failed:    s.failed.Load(),
		CacheHits: s.cacheHits.Load(),
	}
}
