// Package reconcile matches vendor shipment rows against the tag-scoped
// remote item set, computes stock deltas, and applies confirmed updates.
package reconcile

import (
	"github.com/shelfmirror/inventory-service/internal/catalog"
)

// Identifier methods for matching CSV rows to remote items.
const (
	MethodUPC  = "upc"
	MethodName = "name"
)

// Options configures one matching pass.
type Options struct {
	RuleName         string `json:"ruleName"`
	Method           string `json:"method"`
	IdentifierColumn string `json:"identifierColumn"`
	QuantityColumn   string `json:"quantityColumn"`
}

// Matched is a CSV row resolved to a remote item with its computed delta.
// Stock is always adjusted additively: new = current + delta.
type Matched struct {
	Row          map[string]string `json:"row"`
	Item         catalog.Item      `json:"item"`
	CurrentStock int64             `json:"currentStock"`
	Delta        int               `json:"delta"`
	NewStock     int64             `json:"newStock"`
}

// Unmatched is a CSV row no remote item could be found for.
type Unmatched struct {
	Row         map[string]string `json:"row"`
	SearchValue string            `json:"searchValue"`
	Method      string            `json:"method"`
}

// MissingTag is a mirrored item that matches CSV data but lacks the target
// vendor tag remotely. An operator action item, not an error.
type MissingTag struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	SKU    *string `json:"sku"`
}

// MatchResult is the outcome of one matching pass.
type MatchResult struct {
	Matched   []Matched   `json:"matched"`
	Unmatched []Unmatched `json:"unmatched"`
}

// ColumnHints is the advisory output of header inference. The operator can
// override every pick.
type ColumnHints struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
}
