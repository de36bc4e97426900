package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"sitewatch/internal/datastore"
	"sitewatch/internal/errorwrapper"
	"sitewatch/internal/monitor"
	"sitewatch/internal/urlhandler"
)

// SourceChecker performs a monitoring attempt on a source. The monitor
// service implements it; the indirection keeps registry tests free of
// network wiring.
type SourceChecker interface {
	CheckSource(ctx context.Context, source string, force bool) *monitor.SourceOutcome
}

// FeedRegistry is the durable list of monitored source URLs, stored as a
// JSON array under a single key and rewritten wholesale on every mutation.
type FeedRegistry struct {
	kv      datastore.KeyValueStore
	checker SourceChecker
	logger  zerolog.Logger
}

// NewFeedRegistry creates a feed registry over the given KV store.
func NewFeedRegistry(kv datastore.KeyValueStore, checker SourceChecker, logger zerolog.Logger) *FeedRegistry {
	return &FeedRegistry{
		kv:      kv,
		checker: checker,
		logger:  logger.With().Str("component", "FeedRegistry").Logger(),
	}
}

// List returns the persisted source list. Absent or corrupt persisted data
// is treated as an empty list, not an error.
func (r *FeedRegistry) List() ([]string, error) {
	raw, exists, err := r.kv.Get(datastore.RegistryKey)
	if err != nil {
		return nil, err
	}
	if !exists || raw == "" {
		return []string{}, nil
	}

	var sources []string
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		r.logger.Warn().Err(err).Msg("Registry data is corrupt, treating as empty")
		return []string{}, nil
	}
	return sources, nil
}

// Add registers a new source. The source is checked first (forced, so a
// same-day add still fetches) and appended only when that check succeeds.
// Adding an already-registered source re-checks it without duplicating the
// entry. A distinct source whose domain is already registered is rejected:
// snapshots are keyed by domain, and two sources on one domain would
// silently overwrite each other's slots.
func (r *FeedRegistry) Add(ctx context.Context, source string) *monitor.SourceOutcome {
	normalized, err := urlhandler.NormalizeURL(source)
	if err != nil {
		return failure(fmt.Sprintf("invalid source URL %s: %v", source, err))
	}

	sources, err := r.List()
	if err != nil {
		return failure(fmt.Sprintf("failed to load registry: %v", err))
	}

	if contains(sources, normalized) {
		outcome := r.checker.CheckSource(ctx, normalized, true)
		if outcome.Success {
			outcome.Message = fmt.Sprintf("%s already monitored, updated", normalized)
		}
		return outcome
	}

	if conflict := r.findDomainConflict(sources, normalized); conflict != "" {
		return failure(fmt.Sprintf("domain of %s is already monitored via %s", normalized, conflict))
	}

	outcome := r.checker.CheckSource(ctx, normalized, true)
	if !outcome.Success {
		r.logger.Warn().Str("source", normalized).Str("message", outcome.Message).Msg("Initial check failed, source not added")
		return outcome
	}

	sources = append(sources, normalized)
	if err := r.persist(sources); err != nil {
		return failure(fmt.Sprintf("failed to persist registry: %v", err))
	}

	r.logger.Info().Str("source", normalized).Int("total", len(sources)).Msg("Source added to registry")
	outcome.Message = fmt.Sprintf("%s added", normalized)
	return outcome
}

// Remove deletes a source from the registry. No fetch is performed; an
// unknown source fails without altering the persisted list.
func (r *FeedRegistry) Remove(source string) *monitor.SourceOutcome {
	normalized, err := urlhandler.NormalizeURL(source)
	if err != nil {
		return failure(fmt.Sprintf("invalid source URL %s: %v", source, err))
	}

	sources, err := r.List()
	if err != nil {
		return failure(fmt.Sprintf("failed to load registry: %v", err))
	}

	remaining := make([]string, 0, len(sources))
	found := false
	for _, s := range sources {
		if s == normalized {
			found = true
			continue
		}
		remaining = append(remaining, s)
	}

	if !found {
		r.logger.Warn().Err(errorwrapper.ErrSourceNotFound).Str("source", normalized).Msg("Remove requested for unregistered source")
		return failure(fmt.Sprintf("source not found: %s", normalized))
	}

	if err := r.persist(remaining); err != nil {
		return failure(fmt.Sprintf("failed to persist registry: %v", err))
	}

	r.logger.Info().Str("source", normalized).Int("total", len(remaining)).Msg("Source removed from registry")
	return &monitor.SourceOutcome{
		Success: true,
		Message: fmt.Sprintf("%s removed", normalized),
		NewURLs: []string{},
	}
}

// persist rewrites the whole registry list under its key.
func (r *FeedRegistry) persist(sources []string) error {
	data, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return r.kv.Put(datastore.RegistryKey, string(data))
}

// findDomainConflict returns the registered source sharing the candidate's
// domain, if any.
func (r *FeedRegistry) findDomainConflict(sources []string, candidate string) string {
	candidateDomain, err := urlhandler.ExtractDomain(candidate)
	if err != nil {
		return ""
	}
	for _, existing := range sources {
		domain, err := urlhandler.ExtractDomain(existing)
		if err == nil && domain == candidateDomain {
			return existing
		}
	}
	return ""
}

func contains(sources []string, source string) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}

func failure(message string) *monitor.SourceOutcome {
	return &monitor.SourceOutcome{
		Success: false,
		Message: message,
		NewURLs: []string{},
	}
}
