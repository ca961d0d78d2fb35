// Package catalog is the typed HTTP client for the remote point-of-sale
// catalog API. It owns pagination, rate-limit backoff and normalization of
// the two places the remote reports stock in.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfmirror/inventory-service/internal/metrics"
	"github.com/shelfmirror/inventory-service/internal/remote/ratelimit"
)

const defaultPageSize = 1000

// Config holds the remote catalog connection settings. The token and
// merchant ID come from external configuration; every call authenticates
// with the bearer token and is scoped to the merchant.
type Config struct {
	BaseURL    string
	MerchantID string
	Token      string
	PageSize   int
	Timeout    time.Duration
	RateLimit  ratelimit.Config
}

// Client talks to the remote catalog. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
	tags       *tagCache
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit.MaxRetries == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "catalog").Logger(),
		tags:       newTagCache(5 * time.Minute),
	}
}

type elementsPage struct {
	Elements []Item `json:"elements"`
}

// FetchAllItems pages through the full remote item collection with
// category, tag and stock expansions. Pagination continues while full pages
// come back and stops on the first short page. Any non-2xx page response
// aborts the whole fetch; there is no partial-result recovery.
func (c *Client) FetchAllItems(ctx context.Context) ([]Item, error) {
	var items []Item
	offset := 0

	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(c.cfg.PageSize))
		q.Set("offset", fmt.Sprint(offset))
		q.Set("expand", "categories,tags,itemStock")

		var page elementsPage
		if err := c.getJSON(ctx, "/items", q, &page); err != nil {
			return nil, err
		}

		items = append(items, page.Elements...)
		c.logger.Debug().Int("offset", offset).Int("fetched", len(page.Elements)).Msg("Fetched item page")

		if len(page.Elements) < c.cfg.PageSize {
			break
		}
		offset += c.cfg.PageSize

		// Stay under the remote's request budget between pages.
		if err := wait(ctx, c.cfg.RateLimit.InterPageDelay); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// FetchItemsByTag fetches the items carrying one tag, with the stock
// expansion. Single bounded page; tag scopes in practice hold far fewer
// items than the page size.
func (c *Client) FetchItemsByTag(ctx context.Context, tagID string) ([]Item, error) {
	if tagID == "" {
		return nil, &ValidationError{Field: "tagId", Reason: "must not be empty"}
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprint(c.cfg.PageSize))
	q.Set("expand", "tags,itemStock")

	var page elementsPage
	if err := c.getJSON(ctx, "/tags/"+url.PathEscape(tagID)+"/items", q, &page); err != nil {
		return nil, err
	}

	// The listing races with tag edits: an item untagged between the index
	// lookup and the expansion can still appear in elements. When the tag
	// expansion is present, trust it over the index.
	items := page.Elements[:0]
	for _, it := range page.Elements {
		if it.Tags != nil && !it.HasTag(tagID) {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// FetchTags returns the remote tag list. Tags are advisory UI data, so a
// failed fetch yields an empty list instead of an error. Results are served
// from a process-wide cache for five minutes.
func (c *Client) FetchTags(ctx context.Context) []Tag {
	return c.tags.get(ctx, func(ctx context.Context) ([]Tag, error) {
		var page struct {
			Elements []Tag `json:"elements"`
		}
		if err := c.getJSON(ctx, "/tags", nil, &page); err != nil {
			c.logger.Warn().Err(err).Msg("Tag fetch failed, returning empty list")
			return nil, err
		}
		return page.Elements, nil
	})
}

type idRef struct {
	ID string `json:"id"`
}

type tagItemAssociation struct {
	Tag  idRef `json:"tag"`
	Item idRef `json:"item"`
}

type tagItemRequest struct {
	Elements []tagItemAssociation `json:"elements"`
}

// AddTagToItem associates a tag with an item. Intended to be idempotent on
// the remote side; repeating an existing association is not an error.
func (c *Client) AddTagToItem(ctx context.Context, itemID, tagID string) error {
	if itemID == "" {
		return &ValidationError{Field: "itemId", Reason: "must not be empty"}
	}
	if tagID == "" {
		return &ValidationError{Field: "tagId", Reason: "must not be empty"}
	}

	body := tagItemRequest{
		Elements: []tagItemAssociation{{Tag: idRef{ID: tagID}, Item: idRef{ID: itemID}}},
	}

	resp, err := c.do(ctx, http.MethodPost, "/tag_items", nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	return nil
}

// StockWriteResult reports how a stock write went. RateLimited tells the
// caller the remote throttled at least one attempt, so batch-level pacing
// can slow down.
type StockWriteResult struct {
	Attempts    int
	RateLimited bool
}

// UpdateItemStock sets one item's absolute stock quantity. HTTP 429 is
// retried up to the configured bound with increasing backoff; 400 and 500
// fail immediately since a malformed request cannot succeed on retry.
func (c *Client) UpdateItemStock(ctx context.Context, itemID string, quantity int64) (StockWriteResult, error) {
	res := StockWriteResult{}

	if itemID == "" {
		return res, &ValidationError{Field: "itemId", Reason: "must not be empty"}
	}
	if quantity < 0 {
		return res, &ValidationError{Field: "stockCount", Reason: "must not be negative"}
	}

	body := map[string]int64{"quantity": quantity}
	path := "/item_stocks/" + url.PathEscape(itemID)

	var lastStatus int
	for attempt := 1; attempt <= c.cfg.RateLimit.MaxRetries+1; attempt++ {
		res.Attempts = attempt

		resp, err := c.do(ctx, http.MethodPost, path, nil, body)
		if err != nil {
			return res, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return res, nil
		}

		if !ratelimit.IsRateLimited(resp.StatusCode) {
			defer resp.Body.Close()
			return res, upstreamError(resp)
		}

		// Rate limited: back off and retry within the attempt budget.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		res.RateLimited = true
		lastStatus = resp.StatusCode
		metrics.RemoteRateLimited.Inc()

		if attempt > c.cfg.RateLimit.MaxRetries {
			break
		}
		backoff := ratelimit.Backoff(attempt, c.cfg.RateLimit)
		c.logger.Warn().Str("item", itemID).Int("attempt", attempt).Dur("backoff", backoff).Msg("Stock write rate limited, backing off")
		if err := wait(ctx, backoff); err != nil {
			return res, err
		}
	}

	return res, &ratelimit.RetryError{Endpoint: path, Attempts: res.Attempts, LastStatus: lastStatus}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.cfg.BaseURL + "/v3/merchants/" + url.PathEscape(c.cfg.MerchantID) + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &UpstreamError{Status: resp.StatusCode, Body: string(body)}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
