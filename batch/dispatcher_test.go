package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowproc/config"
	"github.com/c360/flowproc/engine"
	"github.com/c360/flowproc/errors"
	"github.com/c360/flowproc/types"
)

func newTestEngine(t *testing.T, op engine.Operation) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.MaxRetries = 1
	eng, err := engine.New(cfg, op, engine.WithBackoffBase(time.Millisecond))
	require.NoError(t, err)
	return eng
}

func makeRecords(n int) []types.InputRecord {
	records := make([]types.InputRecord, n)
	for i := range records {
		records[i] = types.InputRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Timestamp: int64(1000 + i),
			Payload:   i,
		}
	}
	return records
}

func TestProcessBatch_NoEngine(t *testing.T) {
	d := New(nil)

	_, err := d.ProcessBatch(context.Background(), makeRecords(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoEngine)
	assert.True(t, errors.IsInvalid(err))
}

func TestProcessBatch_Empty(t *testing.T) {
	d := New(newTestEngine(t, engine.EchoOperation))

	results, err := d.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcessBatch_AllSucceed(t *testing.T) {
	d := New(newTestEngine(t, engine.EchoOperation))
	records := makeRecords(10)

	results, err := d.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, 10)

	// Output preserves input order regardless of completion order.
	for i, r := range results {
		require.True(t, r.Ok(), "slot %d should succeed", i)
		assert.Equal(t, i, r.Result.Data)
	}
}

func TestProcessBatch_IsolatesValidationFailure(t *testing.T) {
	d := New(newTestEngine(t, engine.EchoOperation))
	records := makeRecords(5)
	records[2].Payload = nil // fails validation

	results, err := d.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results {
		if i == 2 {
			require.False(t, r.Ok())
			assert.ErrorIs(t, r.Err, errors.ErrInvalidRecord)
			continue
		}
		assert.True(t, r.Ok(), "slot %d should succeed", i)
	}
}

func TestProcessBatch_IsolatesProcessingFailure(t *testing.T) {
	eng := newTestEngine(t, func(_ context.Context, rec types.InputRecord, _ config.Config) (any, error) {
		if rec.ID == "rec-1" {
			return nil, fmt.Errorf("downstream rejected %s", rec.ID)
		}
		return rec.Payload, nil
	})
	d := New(eng)

	results, err := d.ProcessBatch(context.Background(), makeRecords(3))
	require.NoError(t, err)

	assert.True(t, results[0].Ok())
	require.False(t, results[1].Ok())
	assert.ErrorIs(t, results[1].Err, errors.ErrMaxRetriesExceeded)
	assert.True(t, results[2].Ok())
}

func TestProcessBatch_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int64

	eng := newTestEngine(t, func(_ context.Context, rec types.InputRecord, _ config.Config) (any, error) {
		now := inFlight.Add(1)
		for {
			p := peak.Load()
			if now <= p || peak.CompareAndSwap(p, now) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return rec.Payload, nil
	})
	d := New(eng)

	start := time.Now()
	results, err := d.ProcessBatch(context.Background(), makeRecords(8))
	require.NoError(t, err)
	require.Len(t, results, 8)

	// Unbounded fan-out: all units overlap, so the batch takes roughly one
	// unit's duration rather than eight.
	assert.Less(t, time.Since(start), 120*time.Millisecond)
	assert.Greater(t, peak.Load(), int64(1))
}

func TestProcessBatch_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int64

	eng := newTestEngine(t, func(_ context.Context, rec types.InputRecord, _ config.Config) (any, error) {
		now := inFlight.Add(1)
		for {
			p := peak.Load()
			if now <= p || peak.CompareAndSwap(p, now) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return rec.Payload, nil
	})
	d := New(eng, WithConcurrency(2))

	results, err := d.ProcessBatch(context.Background(), makeRecords(8))
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		require.True(t, r.Ok())
		assert.Equal(t, i, r.Result.Data)
	}
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestProcessBatch_BoundedCancellationFillsEverySlot(t *testing.T) {
	d := New(newTestEngine(t, engine.EchoOperation), WithConcurrency(1))
	records := makeRecords(50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := d.ProcessBatch(ctx, records)
	require.NoError(t, err)
	require.Len(t, results, 50)

	// Cancellation must not leave zero-value slots posing as successes:
	// every slot holds either a real result or the cancellation error.
	for i, r := range results {
		if r.Ok() {
			assert.True(t, r.Result.Success, "slot %d reports Ok with a zero-value result", i)
			continue
		}
		assert.ErrorIs(t, r.Err, context.Canceled, "slot %d", i)
	}
}

func TestProcessBatch_DuplicateRecordsShareCache(t *testing.T) {
	var invoked atomic.Int64
	eng := newTestEngine(t, func(_ context.Context, rec types.InputRecord, _ config.Config) (any, error) {
		invoked.Add(1)
		return rec.Payload, nil
	})
	d := New(eng)

	rec := types.InputRecord{ID: "dup", Timestamp: 42, Payload: "p"}

	// Sequential batches: the second batch is served entirely from cache.
	_, err := d.ProcessBatch(context.Background(), []types.InputRecord{rec})
	require.NoError(t, err)
	results, err := d.ProcessBatch(context.Background(), []types.InputRecord{rec})
	require.NoError(t, err)

	assert.True(t, results[0].Ok())
	assert.Equal(t, int64(1), invoked.Load())
	assert.Equal(t, uint64(1), eng.Metrics().CacheHits)
}
