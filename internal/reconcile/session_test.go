package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/mirror"
)

// fakeCatalog serves tag-scoped items and records tag associations, tagging
// items into scope the way the real remote does.
type fakeCatalog struct {
	mu       sync.Mutex
	byTag    map[string][]catalog.Item
	outside  map[string]catalog.Item
	fetches  int
	slowdown time.Duration
}

func (f *fakeCatalog) FetchItemsByTag(ctx context.Context, tagID string) ([]catalog.Item, error) {
	f.mu.Lock()
	f.fetches++
	items := append([]catalog.Item(nil), f.byTag[tagID]...)
	delay := f.slowdown
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return items, nil
}

func (f *fakeCatalog) AddTagToItem(ctx context.Context, itemID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it, ok := f.outside[itemID]; ok {
		f.byTag[tagID] = append(f.byTag[tagID], it)
		delete(f.outside, itemID)
	}
	return nil
}

// sessionLister serves the untagged mirror rows and honors AddTag.
type sessionLister struct {
	mu    sync.Mutex
	items map[string]mirror.Item
}

func (l *sessionLister) ItemsWithoutTag(ctx context.Context, tagID string) ([]mirror.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []mirror.Item
	for _, it := range l.items {
		if !it.HasTag(tagID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *sessionLister) AddTag(ctx context.Context, id, tagID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.items[id]
	if ok && !it.HasTag(tagID) {
		it.Tags = append(it.Tags, tagID)
		l.items[id] = it
	}
	return nil
}

func newSessionFixture() (*Session, *fakeCatalog, *sessionLister) {
	remote := &fakeCatalog{
		byTag: map[string][]catalog.Item{
			"vendor-1": {{ID: "i1", SKU: "123", Name: "Widget", ItemStock: &catalog.ItemStock{Quantity: 10}}},
		},
		outside: map[string]catalog.Item{
			"i9": {ID: "i9", SKU: "999", Name: "Niner", ItemStock: &catalog.ItemStock{Quantity: 1}},
		},
	}
	lister := &sessionLister{items: map[string]mirror.Item{
		"i1": {ID: "i1", Name: "Widget", SKU: strPtr("123"), Tags: []string{"vendor-1"}},
		"i9": {ID: "i9", Name: "Niner", SKU: strPtr("999"), Tags: []string{}},
	}}

	rows := []map[string]string{
		{"UPC": "123", "Qty": "5"},
		{"UPC": "999", "Qty": "2"},
	}
	session := NewSession(remote, lister, NewEngine(lister), "vendor-1",
		[]string{"UPC", "Description", "Qty"}, rows,
		Options{RuleName: "quantity", Method: MethodUPC, IdentifierColumn: "UPC"})
	return session, remote, lister
}

func TestSessionRefreshProducesSnapshot(t *testing.T) {
	session, _, _ := newSessionFixture()

	require.NoError(t, session.Refresh(context.Background()))

	snap := session.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	require.Len(t, snap.Matched, 1)
	assert.Equal(t, "i1", snap.Matched[0].Item.ID)
	assert.Equal(t, int64(15), snap.Matched[0].NewStock)

	require.Len(t, snap.Unmatched, 1)
	assert.Equal(t, "999", snap.Unmatched[0].SearchValue)

	// i9 matches the CSV by SKU but lacks the vendor tag remotely.
	require.Len(t, snap.MissingTag, 1)
	assert.Equal(t, "i9", snap.MissingTag[0].ItemID)

	assert.Equal(t, "UPC", snap.Hints.Identifier)
	assert.Equal(t, "Qty", snap.Hints.Quantity)
}

func TestSessionAddTagMigratesItemToMatched(t *testing.T) {
	session, remote, _ := newSessionFixture()
	require.NoError(t, session.Refresh(context.Background()))

	// Operator resolves the missing-tag entry: associate, re-fetch, re-run.
	require.NoError(t, session.AddTag(context.Background(), "i9"))

	snap := session.Snapshot()
	assert.Len(t, snap.Matched, 2)
	assert.Empty(t, snap.Unmatched)
	assert.Empty(t, snap.MissingTag)
	assert.GreaterOrEqual(t, remote.fetches, 2)
}

func TestSessionRefreshGuardCoalesces(t *testing.T) {
	session, remote, _ := newSessionFixture()
	remote.slowdown = 20 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Refresh(context.Background())
		}()
	}
	wg.Wait()

	// One pass runs, concurrent requests coalesce into at most one
	// deferred follow-up: never five fetches.
	remote.mu.Lock()
	fetches := remote.fetches
	remote.mu.Unlock()
	assert.LessOrEqual(t, fetches, 2)
	assert.Equal(t, StateIdle, session.Snapshot().State)
}

func TestSessionManager(t *testing.T) {
	mgr := NewSessionManager()
	session, _, _ := newSessionFixture()

	mgr.Put(session)
	assert.Same(t, session, mgr.Get(session.ID))
	assert.Nil(t, mgr.Get("unknown"))

	mgr.Delete(session.ID)
	assert.Nil(t, mgr.Get(session.ID))
}
