package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmirror/inventory-service/internal/remote/ratelimit"
)

func testConfig(baseURL string) Config {
	rl := ratelimit.DefaultConfig()
	rl.RateLimitBackoff = time.Millisecond
	rl.InterPageDelay = 0
	return Config{
		BaseURL:    baseURL,
		MerchantID: "M123",
		Token:      "test-token",
		PageSize:   2,
		RateLimit:  rl,
	}
}

func TestItemStockPrefersExpandedSubResource(t *testing.T) {
	withExpansion := Item{StockCount: 0, ItemStock: &ItemStock{Quantity: 42}}
	assert.Equal(t, int64(42), withExpansion.Stock())

	staleRoot := Item{StockCount: 7, ItemStock: &ItemStock{Quantity: 42}}
	assert.Equal(t, int64(42), staleRoot.Stock())

	withoutExpansion := Item{StockCount: 7}
	assert.Equal(t, int64(7), withoutExpansion.Stock())
}

func TestFetchAllItemsPaginates(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/merchants/M123/items", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "categories,tags,itemStock", r.URL.Query().Get("expand"))

		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		// Full page at offset 0, short page at offset 2.
		items := []Item{{ID: "i-" + offset + "-a"}, {ID: "i-" + offset + "-b"}}
		if offset != "0" {
			items = items[:1]
		}
		json.NewEncoder(w).Encode(map[string]any{"elements": items})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	items, err := c.FetchAllItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []string{"0", "2"}, offsets)
}

func TestFetchAllItemsAbortsOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	_, err := c.FetchAllItems(context.Background())
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
}

func TestFetchItemsByTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/merchants/M123/tags/t9/items", r.URL.Path)
		require.Equal(t, "tags,itemStock", r.URL.Query().Get("expand"))
		json.NewEncoder(w).Encode(map[string]any{"elements": []Item{
			{ID: "i1", SKU: "123", ItemStock: &ItemStock{Quantity: 5}, Tags: &TagList{Elements: []Tag{{ID: "t9"}}}},
			{ID: "i2", SKU: "456", Tags: &TagList{Elements: []Tag{{ID: "t4"}}}},
			{ID: "i3", SKU: "789"},
		}})
	}))
	defer srv.Close()

	// i2 was untagged mid-listing; i3 came back without the expansion and
	// is kept on the index's word.
	c := NewClient(testConfig(srv.URL), testLogger())
	items, err := c.FetchItemsByTag(context.Background(), "t9")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, int64(5), items[0].Stock())
	assert.Equal(t, "i3", items[1].ID)

	_, err = c.FetchItemsByTag(context.Background(), "")
	var invalid *ValidationError
	assert.ErrorAs(t, err, &invalid)
}

func TestFetchTagsReturnsEmptyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	tags := c.FetchTags(context.Background())
	assert.Empty(t, tags)
}

func TestFetchTagsCachesWithinFreshnessWindow(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"elements": []Tag{{ID: "t1", Name: "Acme Distributing"}}})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	first := c.FetchTags(context.Background())
	second := c.FetchTags(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.tags.invalidate()
	c.FetchTags(context.Background())
	assert.Equal(t, 2, calls)
}

func TestUpdateItemStockRetriesOn429(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/merchants/M123/item_stocks/i1", r.URL.Path)
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, int64(17), body["quantity"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	res, err := c.UpdateItemStock(context.Background(), "i1", 17)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.True(t, res.RateLimited)
	assert.Equal(t, 3, calls)
}

func TestUpdateItemStockExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	res, err := c.UpdateItemStock(context.Background(), "i1", 1)
	var retryErr *ratelimit.RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, http.StatusTooManyRequests, retryErr.LastStatus)
	assert.Equal(t, 4, retryErr.Attempts)
	assert.Contains(t, retryErr.Error(), "failed after 4 attempts")
	assert.Equal(t, 4, res.Attempts) // initial call plus three retries
}

func TestUpdateItemStockDoesNotRetryPermanentErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(status)
			}))
			defer srv.Close()

			c := NewClient(testConfig(srv.URL), testLogger())
			_, err := c.UpdateItemStock(context.Background(), "i1", 1)
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, status, upstream.Status)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestUpdateItemStockValidatesBeforeNetwork(t *testing.T) {
	c := NewClient(testConfig("http://127.0.0.1:1"), testLogger())

	var invalid *ValidationError
	_, err := c.UpdateItemStock(context.Background(), "", 5)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "itemId", invalid.Field)

	_, err = c.UpdateItemStock(context.Background(), "i1", -1)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "stockCount", invalid.Field)
}

func TestAddTagToItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/merchants/M123/tag_items", r.URL.Path)
		var body tagItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Elements, 1)
		assert.Equal(t, "t1", body.Elements[0].Tag.ID)
		assert.Equal(t, "i1", body.Elements[0].Item.ID)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), testLogger())
	require.NoError(t, c.AddTagToItem(context.Background(), "i1", "t1"))

	var invalid *ValidationError
	assert.ErrorAs(t, c.AddTagToItem(context.Background(), "", "t1"), &invalid)
	assert.ErrorAs(t, c.AddTagToItem(context.Background(), "i1", ""), &invalid)
}
