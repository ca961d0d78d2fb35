// Package mirror is the local relational cache of the remote catalog,
// plus the sync-run log that records how fresh the cache is.
package mirror

import "time"

// Item is one mirrored catalog row. Identity is the remote item ID; the
// SKU is globally unique when present, the code is not.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Cost         int64     `json:"cost"`
	SKU          *string   `json:"sku"`
	Code         *string   `json:"code"`
	StockCount   int64     `json:"stockCount"`
	Available    bool      `json:"available"`
	CategoryID   *string   `json:"categoryId"`
	CategoryName *string   `json:"categoryName"`
	Tags         []string  `json:"tags"`
	ModifiedTime int64     `json:"modifiedTime"`
	LastSynced   time.Time `json:"lastSynced"`
}

// HasTag reports whether the mirrored item carries a tag.
func (it *Item) HasTag(tagID string) bool {
	for _, t := range it.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// Sync run statuses. A run is created in_progress and moved exactly once to
// a terminal state.
const (
	SyncStatusInProgress = "in_progress"
	SyncStatusSuccess    = "success"
	SyncStatusError      = "error"
)

// SyncRun is one full-sync attempt. The latest run by creation order
// represents the mirror's freshness.
type SyncRun struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
	Status       string     `json:"status"`
	ItemsFetched *int       `json:"itemsFetched"`
	ErrorMessage *string    `json:"errorMessage"`
}

// Stock bands for the dashboard's stock filter.
const (
	StockBandOut = "out"
	StockBandLow = "low"
	StockBandIn  = "in"
)

// lowStockThreshold is the upper bound of the "low" band.
const lowStockThreshold = 10

// ItemFilter selects and pages mirrored items for the dashboard read API.
type ItemFilter struct {
	Search     string
	CategoryID string
	TagID      string
	StockBand  string
	Available  *bool
	MinPrice   *int64
	MaxPrice   *int64
	Limit      int
	Offset     int
}
