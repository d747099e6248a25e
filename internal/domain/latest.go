package domain

import (
	"slices"
	"strings"
	"time"
)

// Recency is implemented by ledger records that take part in "latest" selection
type Recency interface {
	RecencyKey() (time.Time, string)
}

// compareRecency orders a before b when a is newer: larger time first,
// then larger id.
func compareRecency[T Recency](a, b T) int {
	at, aid := a.RecencyKey()
	bt, bid := b.RecencyKey()
	if c := bt.Compare(at); c != 0 {
		return c
	}
	return strings.Compare(bid, aid)
}

// LatestOf returns the record with the greatest timestamp, ties broken by the
// greatest id. The result does not depend on input order.
func LatestOf[T Recency](records []T) (T, bool) {
	var zero T
	if len(records) == 0 {
		return zero, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if compareRecency(r, best) < 0 {
			best = r
		}
	}
	return best, true
}

// SortNewestFirst orders records by the same rule LatestOf uses, newest first
func SortNewestFirst[T Recency](records []T) {
	slices.SortFunc(records, compareRecency[T])
}
