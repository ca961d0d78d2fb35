// Package syncer pulls the entire remote catalog into the local mirror.
// The delete-reconciliation pass at the end is what makes this a mirror
// rather than an accumulator.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/metrics"
	"github.com/shelfmirror/inventory-service/internal/mirror"
)

// ErrSyncInProgress is returned when a sync is triggered while another one
// is still running.
var ErrSyncInProgress = errors.New("a full sync is already running")

// itemFetcher is the slice of the catalog client a sync needs.
type itemFetcher interface {
	FetchAllItems(ctx context.Context) ([]catalog.Item, error)
}

// mirrorStore is the slice of the mirror store a sync needs.
type mirrorStore interface {
	UpsertItem(ctx context.Context, item mirror.Item) error
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsNotIn(ctx context.Context, remoteIDs []string) (int64, error)
	FindBySKU(ctx context.Context, sku string) (*mirror.Item, error)
	CreateSyncRun(ctx context.Context) (*mirror.SyncRun, error)
	CompleteSyncRun(ctx context.Context, id string, outcome mirror.SyncOutcome) error
}

// Orchestrator runs full syncs. At most one sync is in flight per process;
// there are no retries at this level, a failed run is re-triggered by the
// operator.
type Orchestrator struct {
	client  itemFetcher
	store   mirrorStore
	logger  zerolog.Logger
	running atomic.Bool
}

// New creates an orchestrator.
func New(client itemFetcher, store mirrorStore, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		store:  store,
		logger: logger.With().Str("component", "sync").Logger(),
	}
}

// Running reports whether a sync is currently in flight.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Run executes one full sync: fetch the whole remote set, upsert every item
// in fetch order, then delete mirror rows absent remotely. All-or-nothing
// at the run level; rows upserted before a failure stay in the mirror.
func (o *Orchestrator) Run(ctx context.Context) (*mirror.SyncRun, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer o.running.Store(false)

	run, err := o.store.CreateSyncRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}

	start := time.Now()
	fetched, err := o.execute(ctx)
	if err != nil {
		o.logger.Error().Err(err).Str("run", run.ID).Msg("Full sync failed")
		metrics.SyncRuns.WithLabelValues(mirror.SyncStatusError).Inc()
		if completeErr := o.store.CompleteSyncRun(ctx, run.ID, mirror.SyncOutcome{
			Status:       mirror.SyncStatusError,
			ItemsFetched: fetched,
			ErrorMessage: err.Error(),
		}); completeErr != nil {
			o.logger.Error().Err(completeErr).Str("run", run.ID).Msg("Failed to record sync error")
		}
		return run, err
	}

	metrics.SyncRuns.WithLabelValues(mirror.SyncStatusSuccess).Inc()
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	metrics.SyncItemsFetched.Observe(float64(fetched))

	if err := o.store.CompleteSyncRun(ctx, run.ID, mirror.SyncOutcome{
		Status:       mirror.SyncStatusSuccess,
		ItemsFetched: fetched,
	}); err != nil {
		return run, fmt.Errorf("record sync success: %w", err)
	}

	o.logger.Info().Str("run", run.ID).Int("items", fetched).Dur("took", time.Since(start)).Msg("Full sync completed")
	return run, nil
}

func (o *Orchestrator) execute(ctx context.Context) (int, error) {
	items, err := o.client.FetchAllItems(ctx)
	if err != nil {
		return 0, err
	}

	remoteIDs := make([]string, 0, len(items))
	for _, remote := range items {
		remoteIDs = append(remoteIDs, remote.ID)

		local := toMirrorItem(remote)

		// The remote reassigns SKUs across items; when an incoming SKU is
		// owned by a different mirror row, that stale row goes first so
		// the unique index holds.
		if local.SKU != nil {
			existing, err := o.store.FindBySKU(ctx, *local.SKU)
			if err != nil {
				return len(items), err
			}
			if existing != nil && existing.ID != local.ID {
				o.logger.Debug().Str("sku", *local.SKU).Str("stale", existing.ID).Str("new", local.ID).Msg("Resolving SKU collision")
				if err := o.store.DeleteItem(ctx, existing.ID); err != nil {
					return len(items), err
				}
			}
		}

		if err := o.store.UpsertItem(ctx, local); err != nil {
			return len(items), err
		}
	}

	// Delete-reconciliation strictly follows completion of all upserts, so
	// a delete can never race ahead of a create for the same logical item.
	deleted, err := o.store.DeleteItemsNotIn(ctx, remoteIDs)
	if err != nil {
		return len(items), err
	}
	if deleted > 0 {
		o.logger.Info().Int64("deleted", deleted).Msg("Removed items absent from remote")
	}

	return len(items), nil
}

func toMirrorItem(remote catalog.Item) mirror.Item {
	item := mirror.Item{
		ID:           remote.ID,
		Name:         remote.Name,
		Price:        remote.Price,
		Cost:         remote.Cost,
		StockCount:   remote.Stock(),
		Available:    remote.Available,
		Tags:         remote.TagIDs(),
		ModifiedTime: remote.ModifiedTime,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if remote.SKU != "" {
		sku := remote.SKU
		item.SKU = &sku
	}
	if remote.Code != "" {
		code := remote.Code
		item.Code = &code
	}
	if cats := remote.CategoryRefs(); len(cats) > 0 {
		id, name := cats[0].ID, cats[0].Name
		item.CategoryID = &id
		item.CategoryName = &name
	}
	return item
}
