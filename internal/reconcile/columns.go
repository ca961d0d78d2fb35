package reconcile

import "strings"

var (
	identifierHints = []string{"upc", "sku", "barcode", "item #", "item no", "gtin"}
	nameHints       = []string{"name", "desc", "product", "title"}
	quantityHints   = []string{"qty", "quantity", "shipped", "units", "count"}
)

// InferColumns scans header names for substrings suggesting the
// identifier, product-name and quantity roles, to pre-fill the operator's
// column pickers. Advisory only; first hit per role wins.
func InferColumns(headers []string) ColumnHints {
	hints := ColumnHints{}
	for _, h := range headers {
		lower := strings.ToLower(h)
		if hints.Identifier == "" && containsAny(lower, identifierHints) {
			hints.Identifier = h
			continue
		}
		if hints.Name == "" && containsAny(lower, nameHints) {
			hints.Name = h
			continue
		}
		if hints.Quantity == "" && containsAny(lower, quantityHints) {
			hints.Quantity = h
		}
	}
	return hints
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
