package cuid2

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	id := New("run")
	if !strings.HasPrefix(id, "run_") {
		t.Fatalf("New(\"run\") = %q, want run_ prefix", id)
	}
	if len(id) != len("run_")+6+randomLength {
		t.Errorf("unexpected length %d for %q", len(id), id)
	}
	for _, r := range id[len("run_"):] {
		if !strings.ContainsRune(base62Alphabet, r) {
			t.Errorf("non-base62 character %q in %q", r, id)
		}
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := New("x")
		if seen[id] {
			t.Fatalf("duplicate ID %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestEncodeTimestampSortable(t *testing.T) {
	a := encodeTimestamp(1700000000)
	b := encodeTimestamp(1700000001)
	c := encodeTimestamp(1800000000)
	if !(a < b && b < c) {
		t.Errorf("timestamps not lexicographically sortable: %q %q %q", a, b, c)
	}
}
