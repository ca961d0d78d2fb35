package mirror

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestStore spins up a disposable Postgres and returns a Store bound
// to it. Integration tests are skipped in short mode.
func setupTestStore(t *testing.T) (*Store, context.Context) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	return store, ctx
}

func strPtr(s string) *string { return &s }

func testItem(id, sku string) Item {
	it := Item{
		ID:         id,
		Name:       "Item " + id,
		Price:      499,
		Cost:       250,
		StockCount: 10,
		Available:  true,
		Tags:       []string{},
	}
	if sku != "" {
		it.SKU = strPtr(sku)
	}
	return it
}

func TestUpsertAndFind(t *testing.T) {
	store, ctx := setupTestStore(t)

	item := testItem("i1", "111")
	item.Code = strPtr("C-1")
	item.CategoryID = strPtr("cat1")
	item.CategoryName = strPtr("Beverages")
	item.Tags = []string{"t1", "t2"}
	require.NoError(t, store.UpsertItem(ctx, item))

	got, err := store.FindByID(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Item i1", got.Name)
	assert.Equal(t, []string{"t1", "t2"}, got.Tags)
	assert.Equal(t, "Beverages", *got.CategoryName)

	// Upsert by identity updates in place.
	item.Name = "Renamed"
	item.StockCount = 3
	require.NoError(t, store.UpsertItem(ctx, item))
	got, err = store.FindByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(3), got.StockCount)

	bySKU, err := store.FindBySKU(ctx, "111")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, "i1", bySKU.ID)

	missing, err := store.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteItemsNotIn(t *testing.T) {
	store, ctx := setupTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.UpsertItem(ctx, testItem(id, "")))
	}

	deleted, err := store.DeleteItemsNotIn(ctx, []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := store.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := store.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestSyncRunLifecycle(t *testing.T) {
	store, ctx := setupTestStore(t)

	none, err := store.LatestSyncRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	run, err := store.CreateSyncRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncStatusInProgress, run.Status)

	require.NoError(t, store.CompleteSyncRun(ctx, run.ID, SyncOutcome{
		Status:       SyncStatusSuccess,
		ItemsFetched: 42,
	}))

	latest, err := store.LatestSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, SyncStatusSuccess, latest.Status)
	require.NotNil(t, latest.ItemsFetched)
	assert.Equal(t, 42, *latest.ItemsFetched)
	assert.NotNil(t, latest.CompletedAt)
}

func TestMarkInterruptedRuns(t *testing.T) {
	store, ctx := setupTestStore(t)

	_, err := store.CreateSyncRun(ctx)
	require.NoError(t, err)

	marked, err := store.MarkInterruptedRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	latest, err := store.LatestSyncRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncStatusError, latest.Status)
}

func TestItemsWithoutTagAndAddTag(t *testing.T) {
	store, ctx := setupTestStore(t)

	tagged := testItem("i1", "111")
	tagged.Tags = []string{"vendor-1"}
	untagged := testItem("i2", "222")
	require.NoError(t, store.UpsertItem(ctx, tagged))
	require.NoError(t, store.UpsertItem(ctx, untagged))

	without, err := store.ItemsWithoutTag(ctx, "vendor-1")
	require.NoError(t, err)
	require.Len(t, without, 1)
	assert.Equal(t, "i2", without[0].ID)

	require.NoError(t, store.AddTag(ctx, "i2", "vendor-1"))
	// Appending twice must not duplicate.
	require.NoError(t, store.AddTag(ctx, "i2", "vendor-1"))

	got, err := store.FindByID(ctx, "i2")
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor-1"}, got.Tags)

	without, err = store.ItemsWithoutTag(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Empty(t, without)
}

func TestListItemsFilters(t *testing.T) {
	store, ctx := setupTestStore(t)

	fixtures := []Item{
		{ID: "i1", Name: "Cola 12oz", Price: 199, StockCount: 0, Available: true, CategoryID: strPtr("bev"), Tags: []string{"v1"}},
		{ID: "i2", Name: "Cola 2L", Price: 399, StockCount: 5, Available: true, CategoryID: strPtr("bev"), Tags: []string{}},
		{ID: "i3", Name: "Chips", Price: 299, StockCount: 50, Available: false, CategoryID: strPtr("snack"), Tags: []string{"v1"}},
	}
	for _, it := range fixtures {
		require.NoError(t, store.UpsertItem(ctx, it))
	}

	tests := []struct {
		name    string
		filter  ItemFilter
		wantIDs []string
	}{
		{"All", ItemFilter{}, []string{"i3", "i1", "i2"}},
		{"Search", ItemFilter{Search: "cola"}, []string{"i1", "i2"}},
		{"Category", ItemFilter{CategoryID: "snack"}, []string{"i3"}},
		{"Tag", ItemFilter{TagID: "v1"}, []string{"i3", "i1"}},
		{"Out of stock", ItemFilter{StockBand: StockBandOut}, []string{"i1"}},
		{"Low stock", ItemFilter{StockBand: StockBandLow}, []string{"i2"}},
		{"In stock", ItemFilter{StockBand: StockBandIn}, []string{"i3"}},
		{"Price range", ItemFilter{MinPrice: int64Ptr(250), MaxPrice: int64Ptr(350)}, []string{"i3"}},
		{"Unavailable", ItemFilter{Available: boolPtr(false)}, []string{"i3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := store.ListItems(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantIDs), total)
			ids := make([]string, 0, len(items))
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestListItemsPagination(t *testing.T) {
	store, ctx := setupTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.UpsertItem(ctx, testItem(fmt.Sprintf("i%d", i), "")))
	}

	page, total, err := store.ListItems(ctx, ItemFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 2)

	last, _, err := store.ListItems(ctx, ItemFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func int64Ptr(n int64) *int64 { return &n }
func boolPtr(b bool) *bool    { return &b }
