package datastore

import "fmt"

// Key naming scheme. The literal formats are a compatibility contract with
// existing stored data and must not change.
const (
	// RegistryKey holds the JSON array of monitored source URLs
	RegistryKey = "rss_feeds"

	// DayLayout is the calendar-day format used in markers and dated keys
	DayLayout = "20060102"
)

// LastUpdateKey returns the per-domain last-update-day marker key
func LastUpdateKey(domain string) string {
	return fmt.Sprintf("last_update_%s", domain)
}

// CurrentSnapshotKey returns the key of the most recently fetched body
func CurrentSnapshotKey(domain string) string {
	return fmt.Sprintf("sitemap_current_%s", domain)
}

// LatestSnapshotKey returns the key of the prior snapshot version
func LatestSnapshotKey(domain string) string {
	return fmt.Sprintf("sitemap_latest_%s", domain)
}

// DatedSnapshotKey returns the immutable per-day archive key
func DatedSnapshotKey(domain, day string) string {
	return fmt.Sprintf("sitemap_dated_%s_%s", domain, day)
}
