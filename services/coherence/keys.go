package coherence

import "fmt"

// Cache key namespaces. The coherence controller owns these so that every
// writer and every invalidation path agree on the layout.

// PatternsKey caches a consultant's pattern listing.
func PatternsKey(consultantID string) string {
	return "patterns:" + consultantID
}

// SlotsPrefix covers every cached public-slot page for a consultant.
func SlotsPrefix(slug string) string {
	return "slots:" + slug + ":"
}

// SlotsPageKey caches one public-slot page. sessionType is "ALL" when the
// listing is not filtered by type.
func SlotsPageKey(slug, sessionType, fromDate, toDate string, limit, offset int) string {
	return fmt.Sprintf("slots:%s:%s:%s:%s:%d:%d", slug, sessionType, fromDate, toDate, limit, offset)
}

// PatternsLockKey is the advisory lock serializing bulk pattern replacement
// per consultant.
func PatternsLockKey(consultantID string) string {
	return "lock:patterns:" + consultantID
}
