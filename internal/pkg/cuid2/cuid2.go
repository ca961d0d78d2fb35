// Package cuid2 generates collision-resistant, time-sortable identifiers
// for locally created records (sync runs, reconciliation reports).
package cuid2

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const randomLength = 18

// New returns a prefixed ID with a 6-character base62 timestamp followed by
// 18 random base62 characters. The timestamp prefix keeps B-tree index
// inserts local and makes creation-order sorting a plain string sort.
//
// Example: New("run") -> "run_0CL2KwaB3cD5eF7gH9iJ1k"
func New(prefix string) string {
	return prefix + "_" + encodeTimestamp(time.Now().Unix()) + randomBase62(randomLength)
}

// encodeTimestamp encodes Unix seconds as 6 base62 characters,
// lexicographically sortable for any timestamp this service will ever see.
func encodeTimestamp(seconds int64) string {
	out := make([]byte, 6)
	n := seconds
	for i := 5; i >= 0; i-- {
		out[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// randomBase62 draws uniform base62 characters using rejection sampling on
// 6-bit chunks (values 62 and 63 are rejected to keep the distribution flat).
func randomBase62(length int) string {
	var b strings.Builder
	b.Grow(length)

	buf := make([]byte, length+8)
	for b.Len() < length {
		if _, err := crypto_rand.Read(buf); err != nil {
			panic("cuid2: crypto/rand read failed: " + err.Error())
		}
		for _, by := range buf {
			v := by & 0x3f
			if v < 62 {
				b.WriteByte(base62Alphabet[v])
				if b.Len() == length {
					break
				}
			}
		}
	}
	return b.String()
}
