package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/mirror"
)

type fakeLister struct {
	items []mirror.Item
	err   error
}

func (f *fakeLister) ItemsWithoutTag(ctx context.Context, tagID string) ([]mirror.Item, error) {
	return f.items, f.err
}

func remoteItems() []catalog.Item {
	return []catalog.Item{
		{ID: "i1", SKU: "123", Name: "Widget", ItemStock: &catalog.ItemStock{Quantity: 20}},
		{ID: "i2", SKU: "456", Code: "C-456", Name: "Gadget Deluxe", StockCount: 5},
		{ID: "i3", SKU: " 789 ", Name: "Sprocket", ItemStock: &catalog.ItemStock{Quantity: 0}},
	}
}

func upcOptions() Options {
	return Options{
		RuleName:         "quantity",
		Method:           MethodUPC,
		IdentifierColumn: "UPC",
	}
}

func TestMatchByUPC(t *testing.T) {
	engine := NewEngine(&fakeLister{})

	rows := []map[string]string{
		{"UPC": "123", "Qty": "10"},
		{"UPC": "999", "Qty": "4"},
	}

	result, err := engine.Match(rows, upcOptions(), remoteItems())
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	m := result.Matched[0]
	assert.Equal(t, "i1", m.Item.ID)
	assert.Equal(t, int64(20), m.CurrentStock)
	assert.Equal(t, 10, m.Delta)
	assert.Equal(t, int64(30), m.NewStock)

	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "999", result.Unmatched[0].SearchValue)
	assert.Equal(t, MethodUPC, result.Unmatched[0].Method)
}

func TestMatchFallsBackToCode(t *testing.T) {
	engine := NewEngine(&fakeLister{})

	rows := []map[string]string{{"UPC": "C-456", "Qty": "2"}}
	result, err := engine.Match(rows, upcOptions(), remoteItems())
	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "i2", result.Matched[0].Item.ID)
	// No itemStock expansion on i2: root stockCount is the fallback.
	assert.Equal(t, int64(5), result.Matched[0].CurrentStock)
	assert.Equal(t, int64(7), result.Matched[0].NewStock)
}

func TestMatchTrimsRemoteSKU(t *testing.T) {
	engine := NewEngine(&fakeLister{})

	rows := []map[string]string{{"UPC": "789", "Qty": "1"}}
	result, err := engine.Match(rows, upcOptions(), remoteItems())
	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "i3", result.Matched[0].Item.ID)
}

func TestMatchByNameBidirectional(t *testing.T) {
	engine := NewEngine(&fakeLister{})
	opts := Options{RuleName: "quantity", Method: MethodName, IdentifierColumn: "Description"}

	tests := []struct {
		name   string
		value  string
		wantID string
	}{
		{"CSV value inside item name", "Gadget", "i2"},
		{"Item name inside CSV value", "Sprocket 24-pack", "i3"},
		{"Case insensitive", "widget", "i1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []map[string]string{{"Description": tt.value, "Qty": "1"}}
			result, err := engine.Match(rows, opts, remoteItems())
			require.NoError(t, err)
			require.Len(t, result.Matched, 1)
			assert.Equal(t, tt.wantID, result.Matched[0].Item.ID)
		})
	}
}

func TestMatchSkipsEmptyIdentifier(t *testing.T) {
	engine := NewEngine(&fakeLister{})

	rows := []map[string]string{
		{"UPC": "", "Qty": "10"},
		{"UPC": "   ", "Qty": "10"},
	}
	result, err := engine.Match(rows, upcOptions(), remoteItems())
	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Unmatched)
}

func TestMatchValidatesOptions(t *testing.T) {
	engine := NewEngine(&fakeLister{})

	_, err := engine.Match(nil, Options{Method: "magic", IdentifierColumn: "UPC"}, nil)
	assert.Error(t, err)

	_, err = engine.Match(nil, Options{Method: MethodUPC}, nil)
	assert.Error(t, err)
}

func TestMatchFirstMatchWins(t *testing.T) {
	engine := NewEngine(&fakeLister{})
	items := []catalog.Item{
		{ID: "first", SKU: "dup", Name: "First"},
		{ID: "second", SKU: "dup", Name: "Second"},
	}

	rows := []map[string]string{{"UPC": "dup", "Qty": "1"}}
	result, err := engine.Match(rows, upcOptions(), items)
	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "first", result.Matched[0].Item.ID)
}

func strPtr(s string) *string { return &s }

func TestDetectMissingTags(t *testing.T) {
	lister := &fakeLister{items: []mirror.Item{
		{ID: "m1", Name: "Cola 12oz", SKU: strPtr("00123")},       // fuzzy SKU match (leading zeros)
		{ID: "m2", Name: "Orange Soda", Code: strPtr("OS-1")},     // name contains csv value
		{ID: "m3", Name: "Unrelated", SKU: strPtr("888")},         // no match
		{ID: "tagged", Name: "Cola 2L", SKU: strPtr("123999")},    // already in remote scope
	}}
	engine := NewEngine(lister)

	remote := []catalog.Item{{ID: "tagged", SKU: "123999", Name: "Cola 2L"}}
	values := []string{"123", "orange"}

	missing, err := engine.DetectMissingTags(context.Background(), "vendor-1", values, remote)
	require.NoError(t, err)

	ids := make([]string, 0, len(missing))
	for _, m := range missing {
		ids = append(ids, m.ItemID)
	}
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}

func TestDetectMissingTagsIgnoresEmptyValues(t *testing.T) {
	lister := &fakeLister{items: []mirror.Item{{ID: "m1", Name: "Anything"}}}
	engine := NewEngine(lister)

	missing, err := engine.DetectMissingTags(context.Background(), "t", []string{"", "  "}, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInferColumns(t *testing.T) {
	hints := InferColumns([]string{"Vendor UPC", "Product Description", "Qty Shipped", "Price"})
	assert.Equal(t, "Vendor UPC", hints.Identifier)
	assert.Equal(t, "Product Description", hints.Name)
	assert.Equal(t, "Qty Shipped", hints.Quantity)

	none := InferColumns([]string{"A", "B"})
	assert.Empty(t, none.Identifier)
	assert.Empty(t, none.Name)
	assert.Empty(t, none.Quantity)
}
