package datastore

import (
	"github.com/rs/zerolog"

	"sitewatch/internal/errorwrapper"
)

// SnapshotRole identifies one of the three rolling snapshot slots per domain.
type SnapshotRole string

const (
	RoleCurrent SnapshotRole = "current"
	RoleLatest  SnapshotRole = "latest"
	RoleDated   SnapshotRole = "dated"
)

// SnapshotStore persists sitemap snapshots in three rolling slots per domain
// (current, latest, dated:<day>) plus the per-domain last-update-day marker.
// Invariants: current is always the freshest fetched body; latest lags
// current by exactly one successful fetch transition; at most one dated entry
// is created per domain per calendar day.
type SnapshotStore struct {
	kv     KeyValueStore
	logger zerolog.Logger
}

// NewSnapshotStore creates a snapshot store over the given KV primitive.
func NewSnapshotStore(kv KeyValueStore, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		kv:     kv,
		logger: logger.With().Str("component", "SnapshotStore").Logger(),
	}
}

// Current returns the most recently fetched body for domain.
func (s *SnapshotStore) Current(domain string) (string, bool, error) {
	return s.kv.Get(CurrentSnapshotKey(domain))
}

// Latest returns the body that was current before the last successful fetch.
func (s *SnapshotStore) Latest(domain string) (string, bool, error) {
	return s.kv.Get(LatestSnapshotKey(domain))
}

// Dated returns the archived body for the given calendar day (YYYYMMDD).
func (s *SnapshotStore) Dated(domain, day string) (string, bool, error) {
	return s.kv.Get(DatedSnapshotKey(domain, day))
}

// LastUpdateDay returns the calendar day of the most recent successful fetch.
func (s *SnapshotStore) LastUpdateDay(domain string) (string, bool, error) {
	return s.kv.Get(LastUpdateKey(domain))
}

// SetCurrent writes the newly fetched body into the current slot.
func (s *SnapshotStore) SetCurrent(domain, body string) error {
	return s.kv.Put(CurrentSnapshotKey(domain), body)
}

// SetLatest copies a body into the latest slot, overwriting any prior value.
func (s *SnapshotStore) SetLatest(domain, body string) error {
	return s.kv.Put(LatestSnapshotKey(domain), body)
}

// ArchiveDated writes the per-day archival copy for the given day.
func (s *SnapshotStore) ArchiveDated(domain, day, body string) error {
	return s.kv.Put(DatedSnapshotKey(domain, day), body)
}

// SetLastUpdateDay writes the last-update-day marker for domain.
func (s *SnapshotStore) SetLastUpdateDay(domain, day string) error {
	return s.kv.Put(LastUpdateKey(domain), day)
}

// GetSnapshot resolves a snapshot by role. The day argument is only used
// for the dated role.
func (s *SnapshotStore) GetSnapshot(domain string, role SnapshotRole, day string) (string, bool, error) {
	switch role {
	case RoleCurrent:
		return s.Current(domain)
	case RoleLatest:
		return s.Latest(domain)
	case RoleDated:
		if day == "" {
			return "", false, errorwrapper.NewValidationError("day", day, "day is required for the dated snapshot role")
		}
		return s.Dated(domain, day)
	default:
		return "", false, errorwrapper.NewValidationError("role", string(role), "unknown snapshot role")
	}
}
