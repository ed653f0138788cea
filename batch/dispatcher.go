// Package batch runs the processing engine concurrently over a collection
// of records, collecting per-item success or failure without aborting the
// batch.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/c360/flowproc/engine"
	"github.com/c360/flowproc/errors"
	"github.com/c360/flowproc/pkg/worker"
	"github.com/c360/flowproc/types"
)

// Dispatcher fans a batch of records out across a Processor. Each record is
// an independent concurrent unit of work: one record's failure never cancels
// or blocks its siblings, and the output sequence preserves input order
// regardless of completion order.
type Dispatcher struct {
	proc   engine.Processor
	logger *slog.Logger

	// concurrency caps simultaneous units of work; zero means unbounded
	// fan-out (one goroutine per record).
	concurrency int
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithConcurrency bounds the number of records processed simultaneously
// using a worker pool. Zero or negative keeps the default unbounded fan-out.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// New creates a Dispatcher delegating to the given Processor. A nil
// processor is allowed here and rejected at dispatch time.
func New(proc engine.Processor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		proc:   proc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProcessBatch submits every record to the Processor as an independent
// concurrent unit of work and awaits all completions. The returned slice has
// the same length and order as the input; a failing record's slot holds its
// error while all other slots complete normally.
//
// ProcessBatch fails fast only when no Processor is configured.
func (d *Dispatcher) ProcessBatch(ctx context.Context, records []types.InputRecord) ([]types.ItemResult, error) {
	if d.proc == nil {
		return nil, errors.WrapInvalid(errors.ErrNoEngine,
			"Dispatcher", "ProcessBatch", "check processor")
	}

	batchID := uuid.NewString()
	logger := d.logger.With("batch_id", batchID)
	logger.DebugContext(ctx, "dispatching batch",
		"records", len(records), "concurrency", d.concurrency)

	results := make([]types.ItemResult, len(records))
	if len(records) == 0 {
		return results, nil
	}

	if d.concurrency > 0 {
		if err := d.runBounded(ctx, records, results); err != nil {
			return nil, err
		}
	} else {
		d.runUnbounded(ctx, records, results)
	}

	failed := 0
	for _, r := range results {
		if !r.Ok() {
			failed++
		}
	}
	logger.DebugContext(ctx, "batch complete",
		"records", len(records), "failed", failed)

	return results, nil
}

// runUnbounded launches one goroutine per record and joins them all.
func (d *Dispatcher) runUnbounded(ctx context.Context, records []types.InputRecord, results []types.ItemResult) {
	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec types.InputRecord) {
			defer wg.Done()
			res, err := d.proc.Process(ctx, rec)
			results[i] = types.ItemResult{Result: res, Err: err}
		}(i, rec)
	}
	wg.Wait()
}

// runBounded fans out through a worker pool sized to the concurrency cap.
// The queue holds the whole batch, so submission never drops work.
func (d *Dispatcher) runBounded(ctx context.Context, records []types.InputRecord, results []types.ItemResult) error {
	written := make([]atomic.Bool, len(records))
	pool := worker.NewPool(d.concurrency, len(records), func(ctx context.Context, i int) error {
		res, err := d.proc.Process(ctx, records[i])
		results[i] = types.ItemResult{Result: res, Err: err}
		written[i].Store(true)
		// Per-item errors are captured in the slot, not surfaced to the pool
		return nil
	})

	if err := pool.Start(ctx); err != nil {
		return errors.Wrap(err, "Dispatcher", "ProcessBatch", "start worker pool")
	}
	for i := range records {
		if err := pool.Submit(i); err != nil {
			return errors.Wrap(err, "Dispatcher", "ProcessBatch", "submit record")
		}
	}

	// Stop drains the queue; bound the wait by the caller's deadline when
	// one exists.
	timeout := time.Hour
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) + time.Second
	}
	if err := pool.Stop(timeout); err != nil {
		return errors.Wrap(err, "Dispatcher", "ProcessBatch", "drain worker pool")
	}

	// Workers exit on context cancellation without draining the queue.
	// Every slot still holds either a result or an error, so records the
	// pool never reached carry the cancellation instead of a zero value.
	if cause := ctx.Err(); cause != nil {
		for i := range results {
			if !written[i].Load() {
				results[i] = types.ItemResult{Err: errors.WrapTransient(cause,
					"Dispatcher", "ProcessBatch", "process record")}
			}
		}
	}
	return nil
}
