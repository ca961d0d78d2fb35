// Package vendorrule holds the per-vendor stock delta calculation rules
// applied to reconciliation CSV rows. Each vendor ships a different manifest
// format, so the quantity a row contributes to stock is vendor-specific.
package vendorrule

import (
	"strconv"
	"strings"
)

// Rule computes the stock delta a single CSV row contributes.
// CalculateStock must be total: invalid or missing input maps to 0.
type Rule interface {
	Name() string
	DisplayName() string
	CalculateStock(row map[string]string) int
}

// quantityRule reads a single quantity-like column, tolerating the header
// name variants vendors actually use.
type quantityRule struct{}

func (quantityRule) Name() string        { return "quantity" }
func (quantityRule) DisplayName() string { return "Quantity column" }

func (quantityRule) CalculateStock(row map[string]string) int {
	for _, key := range []string{"Qty", "QTY", "Quantity", "quantity", "Qty Shipped", "Units"} {
		if v, ok := row[key]; ok {
			return parseQuantity(v)
		}
	}
	return 0
}

// casePackRule multiplies quantity by unit size, unless the row is flagged
// as a broken case, in which case the units were shipped loose and only the
// quantity counts.
type casePackRule struct{}

func (casePackRule) Name() string        { return "case-pack" }
func (casePackRule) DisplayName() string { return "Case pack (qty × unit size)" }

func (casePackRule) CalculateStock(row map[string]string) int {
	qty := parseQuantity(firstOf(row, "Qty", "QTY", "Quantity"))
	if qty == 0 {
		return 0
	}
	if isTruthy(firstOf(row, "Broken Case", "Broken case", "BrokenCase")) {
		return qty
	}
	unit := parseQuantity(firstOf(row, "Unit Size", "Unit size", "Units Per Case"))
	if unit == 0 {
		return qty
	}
	return qty * unit
}

// shippedStatusRule contributes quantity only for rows whose status column
// reports the shipped sentinel; anything still pending or cancelled adds 0.
type shippedStatusRule struct{}

func (shippedStatusRule) Name() string        { return "shipped-status" }
func (shippedStatusRule) DisplayName() string { return "Shipped rows only" }

const shippedSentinel = "shopped"

func (shippedStatusRule) CalculateStock(row map[string]string) int {
	status := strings.TrimSpace(firstOf(row, "Status", "status"))
	if !strings.EqualFold(status, shippedSentinel) {
		return 0
	}
	return parseQuantity(firstOf(row, "Quantity", "Qty", "QTY"))
}

// ColumnRule reads whatever column the operator selected at mapping time.
// The resolved column name is threaded in explicitly rather than smuggled
// onto the row, so the rule has no hidden coupling to the matching engine.
type ColumnRule struct {
	Column string
}

func (ColumnRule) Name() string        { return "column" }
func (ColumnRule) DisplayName() string { return "Selected column" }

func (r ColumnRule) CalculateStock(row map[string]string) int {
	if r.Column == "" {
		return 0
	}
	return parseQuantity(row[r.Column])
}

func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Vendors export "12.0" from spreadsheets; accept a float form too.
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// isTruthy recognizes the checkmark glyphs and literal "true" that vendor
// sheets use for boolean columns.
func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	switch s {
	case "✔", "✓", "☑", "x", "X":
		return true
	}
	return strings.EqualFold(s, "true")
}

func firstOf(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
