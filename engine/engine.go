package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360/flowproc/config"
	"github.com/c360/flowproc/errors"
	"github.com/c360/flowproc/metric"
	"github.com/c360/flowproc/pkg/cache"
	"github.com/c360/flowproc/pkg/retry"
	"github.com/c360/flowproc/pkg/timestamp"
	"github.com/c360/flowproc/types"
)

// Operation is the injected external collaborator that produces a result
// from a validated record. The engine treats it as opaque and potentially
// fallible; any failure it returns is retryable.
type Operation func(ctx context.Context, rec types.InputRecord, cfg config.Config) (any, error)

// EchoOperation is the identity operation: it returns the record's payload
// unchanged. Useful as a default collaborator and in tests.
func EchoOperation(_ context.Context, rec types.InputRecord, _ config.Config) (any, error) {
	return rec.Payload, nil
}

// Processor is the capability interface the batch dispatcher delegates to.
// Engine is the one concrete implementation today; the boundary exists so
// alternative engines can be substituted.
type Processor interface {
	// Validate reports whether the record exposes all required fields.
	Validate(rec types.InputRecord) bool

	// Process runs one record through validate, cache lookup, retried
	// execution, cache write-back, and metrics update.
	Process(ctx context.Context, rec types.InputRecord) (types.ResultRecord, error)
}

// Engine orchestrates validate → cache lookup → execute-with-retry →
// cache store → metrics update for one record at a time. All state is
// instance state: the cache and metrics sink are created at construction
// and discarded with the engine.
//
// The configuration is immutable for the engine's lifetime, so a cached
// result always carries the metadata the engine was built with. Changing
// configuration means constructing a new engine, which starts with an
// empty cache.
type Engine struct {
	id     string
	cfg    config.Config
	op     Operation
	cache  cache.Cache[types.ResultRecord]
	sink   *metric.Sink
	logger *slog.Logger
	clock  func() time.Time

	// backoffBase is the time unit of the 2^attempt retry backoff.
	backoffBase time.Duration
}

var _ Processor = (*Engine)(nil)

// Option configures an Engine at construction.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	clock       func() time.Time
	backoffBase time.Duration
	registry    *metric.MetricsRegistry
	prefix      string
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for ProcessedAt stamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithBackoffBase sets the time unit of the exponential backoff between
// retry attempts. Defaults to one second.
func WithBackoffBase(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.backoffBase = d
		}
	}
}

// WithMetricsRegistry exports the engine's counters and cache statistics as
// Prometheus metrics under the given component prefix.
func WithMetricsRegistry(registry *metric.MetricsRegistry, prefix string) Option {
	return func(o *options) {
		if registry != nil && prefix != "" {
			o.registry = registry
			o.prefix = prefix
		}
	}
}

// New constructs an Engine from a validated configuration and an operation.
func New(cfg config.Config, op Operation, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Detach from the caller's metadata map so the engine's configuration
	// stays immutable even if the caller keeps mutating theirs.
	cfg.Metadata = cfg.MetadataCopy()
	if op == nil {
		return nil, errors.WrapInvalid(errors.ErrNilOperation,
			"Engine", "New", "check operation")
	}

	o := &options{
		logger:      slog.Default(),
		clock:       time.Now,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	id := uuid.NewString()

	var (
		sink *metric.Sink
		err  error
	)
	cacheOpts := []cache.Option[types.ResultRecord]{}
	if o.registry != nil {
		sink, err = metric.NewSinkWithRegistry(o.registry, o.prefix)
		if err != nil {
			return nil, err
		}
		cacheOpts = append(cacheOpts, cache.WithMetrics[types.ResultRecord](o.registry, o.prefix+"_cache"))
	} else {
		sink = metric.NewSink()
	}

	store, err := cache.NewSimple(cacheOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		id:          id,
		cfg:         cfg,
		op:          op,
		cache:       store,
		sink:        sink,
		logger:      o.logger.With("engine_id", id),
		clock:       o.clock,
		backoffBase: o.backoffBase,
	}, nil
}

// NewFromMap constructs an Engine from a dynamic configuration map.
// Unknown keys are rejected at construction, before any processing occurs.
func NewFromMap(raw map[string]any, op Operation, opts ...Option) (*Engine, error) {
	cfg, err := config.FromMap(raw)
	if err != nil {
		return nil, err
	}
	return New(cfg, op, opts...)
}

// Validate reports whether the record carries all required fields:
// a non-empty id, a non-zero timestamp, and a non-nil payload.
// Presence only; no type or range checks.
func (e *Engine) Validate(rec types.InputRecord) bool {
	return rec.ID != "" && rec.Timestamp != 0 && rec.Payload != nil
}

// Process runs one record through the engine.
//
// A record that fails validation is rejected immediately with an
// invalid-classified error wrapping errors.ErrInvalidRecord; neither the
// cache nor the metrics are touched. A cached result is returned unchanged,
// bypassing execution entirely. Otherwise the operation runs inside the
// retry loop; on exhaustion the failed counter is bumped once and the
// terminal error wraps errors.ErrMaxRetriesExceeded with the last attempt's
// failure as its cause. No partial result is ever cached.
func (e *Engine) Process(ctx context.Context, rec types.InputRecord) (types.ResultRecord, error) {
	if !e.Validate(rec) {
		return types.ResultRecord{}, errors.WrapInvalid(errors.ErrInvalidRecord,
			"Engine", "Process", "validate record")
	}

	key := rec.CacheKey()

	if e.cfg.CacheEnabled {
		if cached, ok := e.cache.Get(key); ok {
			e.sink.IncCacheHit()
			e.logger.DebugContext(ctx, "cache hit", "key", key)
			return cached, nil
		}
	}

	start := e.clock()
	attempt := 0
	result, err := retry.DoWithResult(ctx, retry.Config{
		MaxAttempts:    e.cfg.MaxRetries,
		BaseDelay:      e.backoffBase,
		AttemptTimeout: e.cfg.Timeout,
	}, func(attemptCtx context.Context) (types.ResultRecord, error) {
		attempt++
		data, opErr := e.op(attemptCtx, rec, e.cfg)
		if opErr != nil {
			e.logger.WarnContext(ctx, "attempt failed",
				"key", key, "attempt", attempt, "error", opErr)
			return types.ResultRecord{}, opErr
		}
		return types.ResultRecord{
			Success:     true,
			Data:        data,
			ProcessedAt: timestamp.Stamp(e.clock()),
			Config:      e.cfg.MetadataCopy(),
		}, nil
	})
	if err != nil {
		// A canceled caller is not retry exhaustion: surface the
		// cancellation as-is and leave the failure counter alone.
		if ctx.Err() != nil {
			return types.ResultRecord{}, errors.WrapTransient(err,
				"Engine", "Process", "execute operation")
		}
		e.sink.IncFailed()
		return types.ResultRecord{}, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrMaxRetriesExceeded, err),
			"Engine", "Process", "execute operation")
	}

	if e.cfg.CacheEnabled {
		if _, setErr := e.cache.Set(key, result); setErr != nil {
			e.logger.WarnContext(ctx, "cache store failed", "key", key, "error", setErr)
		}
	}
	e.sink.IncProcessed()
	e.sink.ObserveDuration(e.clock().Sub(start))

	return result, nil
}

// Metrics returns an immutable snapshot of the engine's counters.
func (e *Engine) Metrics() metric.Snapshot {
	return e.sink.Snapshot()
}

// ClearCache removes all cached results. Subsequent lookups miss;
// executions already committed to writing their result still write.
func (e *Engine) ClearCache() error {
	if err := e.cache.Clear(); err != nil {
		return err
	}
	e.logger.Info("cache cleared")
	return nil
}

// CacheStats exposes the cache's always-on statistics tracker.
func (e *Engine) CacheStats() *cache.Statistics {
	return e.cache.Stats()
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// ID returns the engine's instance id used for log correlation.
func (e *Engine) ID() string {
	return e.id
}
