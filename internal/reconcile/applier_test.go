package reconcile

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmirror/inventory-service/internal/catalog"
)

type fakeWriter struct {
	mu      sync.Mutex
	calls   []string
	results map[string]catalog.StockWriteResult
	errs    map[string]error
}

func (f *fakeWriter) UpdateItemStock(ctx context.Context, itemID string, quantity int64) (catalog.StockWriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, itemID)
	return f.results[itemID], f.errs[itemID]
}

type fakeMirror struct {
	mu     sync.Mutex
	stocks map[string]int64
	err    error
}

func (f *fakeMirror) UpdateStock(ctx context.Context, id string, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.stocks == nil {
		f.stocks = make(map[string]int64)
	}
	f.stocks[id] = quantity
	return nil
}

func matchedRow(id string, current int64, delta int) Matched {
	return Matched{
		Item:         catalog.Item{ID: id, Name: "Item " + id},
		CurrentStock: current,
		Delta:        delta,
		NewStock:     current + int64(delta),
	}
}

func newTestApplier(w stockWriter, m mirrorUpdater, pause time.Duration) *Applier {
	return NewApplier(w, m, time.Millisecond, pause, zerolog.New(io.Discard))
}

func TestApplyAllSucceed(t *testing.T) {
	writer := &fakeWriter{results: map[string]catalog.StockWriteResult{}, errs: map[string]error{}}
	store := &fakeMirror{}
	applier := newTestApplier(writer, store, time.Millisecond)

	report := applier.Apply(context.Background(), []Matched{
		matchedRow("i1", 10, 5),
		matchedRow("i2", 0, 3),
		matchedRow("i3", 7, 0),
	})

	assert.True(t, report.Complete())
	require.Len(t, report.Successes, 3)
	assert.Empty(t, report.Failures)

	// Rows apply in confirmed-list order, never reordered.
	assert.Equal(t, []string{"i1", "i2", "i3"}, writer.calls)

	// Mirror refreshed for each success.
	assert.Equal(t, int64(15), store.stocks["i1"])
	assert.Equal(t, int64(3), store.stocks["i2"])
	assert.Equal(t, int64(7), store.stocks["i3"])
}

func TestApplyContinuesPastFailures(t *testing.T) {
	writer := &fakeWriter{
		results: map[string]catalog.StockWriteResult{},
		errs:    map[string]error{"i2": errors.New("remote catalog returned HTTP 500: boom")},
	}
	store := &fakeMirror{}
	applier := newTestApplier(writer, store, time.Millisecond)

	report := applier.Apply(context.Background(), []Matched{
		matchedRow("i1", 1, 1),
		matchedRow("i2", 2, 2),
		matchedRow("i3", 3, 3),
	})

	assert.False(t, report.Complete())
	assert.Len(t, report.Successes, 2)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "i2", report.Failures[0].ItemID)
	assert.Contains(t, report.Failures[0].ErrorMessage, "HTTP 500")

	// The failed row leaves no mirror write behind.
	_, wrote := store.stocks["i2"]
	assert.False(t, wrote)
	assert.Equal(t, []string{"i1", "i2", "i3"}, writer.calls)
}

func TestApplyPausesAfterRateLimiting(t *testing.T) {
	// The second row's write survives 429s inside the client; the applier
	// sees RateLimited and pauses the batch before continuing.
	pause := 50 * time.Millisecond
	writer := &fakeWriter{
		results: map[string]catalog.StockWriteResult{
			"i2": {Attempts: 3, RateLimited: true},
		},
		errs: map[string]error{},
	}
	store := &fakeMirror{}
	applier := newTestApplier(writer, store, pause)

	start := time.Now()
	report := applier.Apply(context.Background(), []Matched{
		matchedRow("i1", 1, 1),
		matchedRow("i2", 2, 2),
		matchedRow("i3", 3, 3),
	})
	elapsed := time.Since(start)

	assert.True(t, report.Complete())
	assert.Len(t, report.Successes, 3)
	assert.GreaterOrEqual(t, elapsed, pause, "batch must absorb the rate-limited pause")
	assert.Equal(t, int64(4), store.stocks["i2"])
}

func TestApplyMirrorFailureDoesNotFailRow(t *testing.T) {
	writer := &fakeWriter{results: map[string]catalog.StockWriteResult{}, errs: map[string]error{}}
	store := &fakeMirror{err: errors.New("pool closed")}
	applier := newTestApplier(writer, store, time.Millisecond)

	report := applier.Apply(context.Background(), []Matched{matchedRow("i1", 1, 1)})
	assert.True(t, report.Complete())
	assert.Len(t, report.Successes, 1)
}

func TestApplyEmptyBatch(t *testing.T) {
	applier := newTestApplier(&fakeWriter{}, &fakeMirror{}, time.Millisecond)
	report := applier.Apply(context.Background(), nil)
	assert.True(t, report.Complete())
	assert.Empty(t, report.Successes)
}
