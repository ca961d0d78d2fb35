package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/identifier"
	"github.com/shelfmirror/inventory-service/internal/metrics"
	"github.com/shelfmirror/inventory-service/internal/mirror"
	"github.com/shelfmirror/inventory-service/internal/vendorrule"
)

// untaggedLister is the slice of the mirror store the engine needs for
// missing-tag detection.
type untaggedLister interface {
	ItemsWithoutTag(ctx context.Context, tagID string) ([]mirror.Item, error)
}

// Engine runs the matching and missing-tag passes for one CSV session.
type Engine struct {
	store untaggedLister
}

// NewEngine creates an engine backed by the mirror store.
func NewEngine(store untaggedLister) *Engine {
	return &Engine{store: store}
}

// Match resolves CSV rows against the tag-scoped remote item list. Rows
// with an empty identifier column are skipped entirely. First match wins,
// in the remote list's order.
func (e *Engine) Match(rows []map[string]string, opts Options, remoteItems []catalog.Item) (*MatchResult, error) {
	if opts.Method != MethodUPC && opts.Method != MethodName {
		return nil, fmt.Errorf("unknown identifier method %q", opts.Method)
	}
	if opts.IdentifierColumn == "" {
		return nil, fmt.Errorf("identifier column not mapped")
	}

	rule := vendorrule.Lookup(opts.RuleName, opts.QuantityColumn)
	result := &MatchResult{}

	for _, row := range rows {
		value := strings.TrimSpace(row[opts.IdentifierColumn])
		if value == "" {
			continue
		}

		item := findItem(remoteItems, opts.Method, value)
		if item == nil {
			result.Unmatched = append(result.Unmatched, Unmatched{
				Row:         row,
				SearchValue: value,
				Method:      opts.Method,
			})
			metrics.ReconcileRows.WithLabelValues("unmatched").Inc()
			continue
		}

		delta := rule.CalculateStock(row)
		current := item.Stock()
		result.Matched = append(result.Matched, Matched{
			Row:          row,
			Item:         *item,
			CurrentStock: current,
			Delta:        delta,
			NewStock:     current + int64(delta),
		})
		metrics.ReconcileRows.WithLabelValues("matched").Inc()
	}

	return result, nil
}

// findItem searches the remote list for the row's identifier value.
// UPC method: exact trimmed SKU equality first, then the non-unique code.
// Name method: bidirectional case-insensitive substring, which tolerates
// both truncated and padded vendor names.
func findItem(items []catalog.Item, method, value string) *catalog.Item {
	switch method {
	case MethodUPC:
		for i := range items {
			if strings.TrimSpace(items[i].SKU) == value {
				return &items[i]
			}
		}
		for i := range items {
			if strings.TrimSpace(items[i].Code) == value {
				return &items[i]
			}
		}
	case MethodName:
		lowerValue := strings.ToLower(value)
		for i := range items {
			lowerName := strings.ToLower(items[i].Name)
			if lowerName == "" {
				continue
			}
			if strings.Contains(lowerName, lowerValue) || strings.Contains(lowerValue, lowerName) {
				return &items[i]
			}
		}
	}
	return nil
}

// DetectMissingTags surfaces mirrored items that match CSV identifier or
// name values but don't carry the target vendor tag remotely. Items already
// in the tag-scoped remote set are excluded; they're reconciled by Match.
func (e *Engine) DetectMissingTags(ctx context.Context, tagID string, csvValues []string, remoteItems []catalog.Item) ([]MissingTag, error) {
	candidates, err := e.store.ItemsWithoutTag(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("load untagged items: %w", err)
	}

	inScope := make(map[string]bool, len(remoteItems))
	for _, it := range remoteItems {
		inScope[it.ID] = true
	}

	var missing []MissingTag
	for _, cand := range candidates {
		if inScope[cand.ID] {
			continue
		}
		if !matchesAnyValue(&cand, csvValues) {
			continue
		}
		missing = append(missing, MissingTag{
			ItemID: cand.ID,
			Name:   cand.Name,
			SKU:    cand.SKU,
		})
		metrics.ReconcileRows.WithLabelValues("missing_tag").Inc()
	}

	return missing, nil
}

func matchesAnyValue(item *mirror.Item, values []string) bool {
	lowerName := strings.ToLower(item.Name)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if item.SKU != nil && identifier.FuzzyMatch(*item.SKU, v) {
			return true
		}
		if item.Code != nil && identifier.FuzzyMatch(*item.Code, v) {
			return true
		}
		if lowerName != "" && strings.Contains(lowerName, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
