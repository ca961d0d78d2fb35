package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/metrics"
)

// stockWriter is the slice of the catalog client the applier needs.
type stockWriter interface {
	UpdateItemStock(ctx context.Context, itemID string, quantity int64) (catalog.StockWriteResult, error)
}

// mirrorUpdater refreshes the local cache after a confirmed remote write.
type mirrorUpdater interface {
	UpdateStock(ctx context.Context, id string, quantity int64) error
}

// AppliedRow records one successful stock write.
type AppliedRow struct {
	ItemID       string `json:"itemId"`
	ItemName     string `json:"itemName"`
	CurrentStock int64  `json:"currentStock"`
	Delta        int    `json:"delta"`
	NewStock     int64  `json:"newStock"`
}

// FailedRow records one failed stock write.
type FailedRow struct {
	ItemID       string `json:"itemId"`
	ItemName     string `json:"itemName"`
	ErrorMessage string `json:"errorMessage"`
}

// Report is the itemized outcome of one bulk apply. A fully successful
// batch lets the UI dismiss the session; a partial failure stays visible
// for manual follow-up.
type Report struct {
	Successes []AppliedRow `json:"successes"`
	Failures  []FailedRow  `json:"failures"`
}

// Complete reports whether every row applied.
func (r *Report) Complete() bool {
	return len(r.Failures) == 0
}

// Applier executes confirmed stock updates one by one. Strictly serial:
// the remote rate limit makes parallelism a liability, not a win.
type Applier struct {
	client           stockWriter
	store            mirrorUpdater
	limiter          *rate.Limiter
	rateLimitedPause time.Duration
	logger           zerolog.Logger
}

// NewApplier creates an applier with the given inter-request pacing and the
// extra pause taken after the remote reports rate limiting.
func NewApplier(client stockWriter, store mirrorUpdater, interRequestDelay, rateLimitedPause time.Duration, logger zerolog.Logger) *Applier {
	if interRequestDelay <= 0 {
		interRequestDelay = 200 * time.Millisecond
	}
	if rateLimitedPause <= 0 {
		rateLimitedPause = 3 * time.Second
	}
	return &Applier{
		client:           client,
		store:            store,
		limiter:          rate.NewLimiter(rate.Every(interRequestDelay), 1),
		rateLimitedPause: rateLimitedPause,
		logger:           logger.With().Str("component", "applier").Logger(),
	}
}

// Apply writes each confirmed row's new stock to the remote catalog in list
// order, then refreshes the mirror for rows that succeeded. One row's
// failure never aborts the batch.
func (a *Applier) Apply(ctx context.Context, confirmed []Matched) *Report {
	report := &Report{}

	for _, row := range confirmed {
		if err := a.limiter.Wait(ctx); err != nil {
			report.Failures = append(report.Failures, FailedRow{
				ItemID:       row.Item.ID,
				ItemName:     row.Item.Name,
				ErrorMessage: err.Error(),
			})
			metrics.StockUpdates.WithLabelValues("failure").Inc()
			continue
		}

		res, err := a.client.UpdateItemStock(ctx, row.Item.ID, row.NewStock)
		if err != nil {
			a.logger.Warn().Err(err).Str("item", row.Item.ID).Msg("Stock update failed")
			report.Failures = append(report.Failures, FailedRow{
				ItemID:       row.Item.ID,
				ItemName:     row.Item.Name,
				ErrorMessage: err.Error(),
			})
			metrics.StockUpdates.WithLabelValues("failure").Inc()
		} else {
			report.Successes = append(report.Successes, AppliedRow{
				ItemID:       row.Item.ID,
				ItemName:     row.Item.Name,
				CurrentStock: row.CurrentStock,
				Delta:        row.Delta,
				NewStock:     row.NewStock,
			})
			metrics.StockUpdates.WithLabelValues("success").Inc()

			if mirrorErr := a.store.UpdateStock(ctx, row.Item.ID, row.NewStock); mirrorErr != nil {
				// The remote write stands; a stale mirror row heals on
				// the next full sync.
				a.logger.Warn().Err(mirrorErr).Str("item", row.Item.ID).Msg("Mirror refresh failed after stock update")
			}
		}

		// The client already retried inside its own bound; an observed
		// 429 means the budget is tight, so slow the whole batch down.
		if res.RateLimited {
			a.logger.Info().Dur("pause", a.rateLimitedPause).Msg("Rate limiting observed, pausing batch")
			select {
			case <-ctx.Done():
				return report
			case <-time.After(a.rateLimitedPause):
			}
		}
	}

	return report
}
