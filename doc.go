// Package flowproc is a single-stage record processing core: it accepts a
// unit of work, validates its shape, serves a cached result when available,
// otherwise executes an injected operation with bounded retries and
// exponential backoff, records outcome metrics, and optionally fans work out
// concurrently across a batch while isolating per-item failures.
//
// # Architecture
//
//	┌──────────────────┐
//	│ Batch Dispatcher │  ordered fan-out, per-item error capture
//	│     (batch)      │
//	└────────┬─────────┘
//	         │ delegates per record
//	┌────────▼─────────┐
//	│ Processing Engine│  validate → cache → retry/execute → metrics
//	│     (engine)     │
//	└────────┬─────────┘
//	         │ uses
//	┌────────▼──────────────────────────────────────┐
//	│ pkg/cache   pkg/retry   metric   config       │
//	│ result store backoff    counters immutable cfg│
//	└───────────────────────────────────────────────┘
//
// The actual business logic that turns a validated record into a result is
// an external collaborator injected as an engine.Operation; the core treats
// it as opaque and any failure it returns as retryable.
//
// # Packages
//
//   - engine: the Processor interface and its concrete Engine
//   - batch: concurrent batch dispatch with order-preserving results
//   - config: immutable engine configuration, map-based construction
//   - types: InputRecord, ResultRecord, ItemResult
//   - metric: atomic counters, Prometheus registry, promhttp export
//   - errors: classified errors and the core's error taxonomy
//   - pkg/cache: generic no-eviction result store
//   - pkg/retry: bounded retry with unjittered exponential backoff
//   - pkg/worker: bounded worker pool for capped batch fan-out
//   - pkg/timestamp: RFC3339-UTC processing stamps
//
// # Usage
//
//	eng, err := engine.New(config.Default(), myOperation)
//	if err != nil {
//	    return err
//	}
//	result, err := eng.Process(ctx, types.InputRecord{
//	    ID:        "t1",
//	    Timestamp: 100,
//	    Payload:   map[string]any{"k": 1},
//	})
//
//	dispatcher := batch.New(eng, batch.WithConcurrency(16))
//	results, err := dispatcher.ProcessBatch(ctx, records)
//
// Out of scope by design: distributed caching, cache eviction policy,
// cross-process work queuing, and authentication of inputs.
package flowproc
