package identifier

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]`)
	leadingZeroRe = regexp.MustCompile(`^0+`)
)

// Normalize canonicalizes a product identifier (UPC/SKU) for comparison.
// Strips surrounding whitespace, removes every non-alphanumeric character,
// and lowercases. Empty input normalizes to the empty string.
func Normalize(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	return nonAlnumRe.ReplaceAllString(s, "")
}

// FuzzyMatch compares two identifiers with layered tolerance. Vendor CSVs
// and the catalog disagree on UPC check-digit presence, leading-zero padding
// and punctuation, so exact equality produces too many false negatives.
//
// Layers, in order:
//  1. normalized forms identical
//  2. identical after stripping leading zeros (all-zero codes become "0")
//  3. one is a substring of the other and the length difference is at most 2
//
// The length bound on the substring layer keeps short internal codes from
// matching inside longer barcodes.
func FuzzyMatch(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	ca := stripLeadingZeros(na)
	cb := stripLeadingZeros(nb)
	if ca == cb {
		return true
	}

	diff := len(ca) - len(cb)
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		return false
	}
	return strings.Contains(ca, cb) || strings.Contains(cb, ca)
}

func stripLeadingZeros(s string) string {
	stripped := leadingZeroRe.ReplaceAllString(s, "")
	if stripped == "" {
		return "0"
	}
	return stripped
}
