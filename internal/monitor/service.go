package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sitewatch/internal/config"
	"sitewatch/internal/datastore"
	"sitewatch/internal/differ"
	"sitewatch/internal/fetcher"
	"sitewatch/internal/urlhandler"
)

// SourceLister supplies the ordered list of monitored sources for a pass.
// The feed registry implements it.
type SourceLister interface {
	List() ([]string, error)
}

// ResultSink receives structured per-source and aggregate results to
// forward as human-readable messages. Implementations must not block for
// long and must swallow their own delivery errors; delivery is best-effort
// by design.
type ResultSink interface {
	SourceUpdated(ctx context.Context, source string, outcome *SourceOutcome)
	PassCompleted(ctx context.Context, result *PassResult)
}

// Service orchestrates sitemap monitoring: per-source snapshot rotation and
// diffing, and full sequential passes over the feed registry.
type Service struct {
	cfg           *config.MonitorConfig
	snapshots     *datastore.SnapshotStore
	fetcher       *fetcher.Fetcher
	urlDiffer     *differ.URLDiffer
	contentDiffer *differ.ContentDiffer
	domainMutexes *datastore.DomainMutexManager
	sources       SourceLister
	sink          ResultSink
	logger        zerolog.Logger

	// now is injectable for tests; defaults to time.Now
	now func() time.Time
}

// NewService creates a monitoring service. The source lister is attached
// separately (SetSourceLister) because the registry needs the service to
// perform add-time checks.
func NewService(
	cfg *config.MonitorConfig,
	snapshots *datastore.SnapshotStore,
	documentFetcher *fetcher.Fetcher,
	urlDiffer *differ.URLDiffer,
	contentDiffer *differ.ContentDiffer,
	domainMutexes *datastore.DomainMutexManager,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cfg:           cfg,
		snapshots:     snapshots,
		fetcher:       documentFetcher,
		urlDiffer:     urlDiffer,
		contentDiffer: contentDiffer,
		domainMutexes: domainMutexes,
		logger:        logger.With().Str("component", "MonitorService").Logger(),
		now:           time.Now,
	}
}

// SetSourceLister attaches the feed registry used by RunPass.
func (s *Service) SetSourceLister(lister SourceLister) {
	s.sources = lister
}

// SetResultSink attaches the notifier sink. A nil sink disables
// notifications; results are still returned to the caller.
func (s *Service) SetResultSink(sink ResultSink) {
	s.sink = sink
}

// CheckSource performs one monitoring attempt on a source: decide whether
// to fetch (day-based throttle unless force), fetch, rotate snapshots, and
// compute the diff against the prior version. It never returns an error;
// every failure is converted into an unsuccessful outcome and no snapshot
// state is left partially mutated on a failed fetch.
func (s *Service) CheckSource(ctx context.Context, source string, force bool) *SourceOutcome {
	domain, err := urlhandler.ExtractDomain(source)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("Could not derive domain from source")
		return failureOutcome(fmt.Sprintf("invalid source URL %s: %v", source, err))
	}

	today := s.now().UTC().Format(datastore.DayLayout)

	// The whole read-promote-write rotation is a single-writer critical
	// section per domain, so overlapping passes cannot interleave it.
	mutex := s.domainMutexes.GetMutex(domain)
	mutex.Lock()
	defer mutex.Unlock()

	marker, markerExists, err := s.snapshots.LastUpdateDay(domain)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", domain).Msg("Failed to read last-update marker")
		return failureOutcome(fmt.Sprintf("storage read failed for %s: %v", domain, err))
	}

	if markerExists && marker == today && !force {
		return s.throttledOutcome(domain)
	}

	return s.fetchAndRotate(ctx, source, domain, today)
}

// throttledOutcome handles the no-fetch branch: the domain was already
// updated today. When both snapshots exist their diff is returned so
// same-day callers still see what changed on the last real fetch.
func (s *Service) throttledOutcome(domain string) *SourceOutcome {
	current, currentExists, err := s.snapshots.Current(domain)
	if err != nil {
		return failureOutcome(fmt.Sprintf("storage read failed for %s: %v", domain, err))
	}
	latest, latestExists, err := s.snapshots.Latest(domain)
	if err != nil {
		return failureOutcome(fmt.Sprintf("storage read failed for %s: %v", domain, err))
	}

	if currentExists && latestExists {
		s.logger.Debug().Str("domain", domain).Msg("Already updated today, returning stored diff")
		return &SourceOutcome{
			Success: true,
			Message: "already updated today, not sent",
			NewURLs: s.urlDiffer.Diff(current, latest),
		}
	}

	s.logger.Debug().Str("domain", domain).Msg("Already updated today")
	return &SourceOutcome{
		Success: true,
		Message: "already updated today",
		NewURLs: []string{},
	}
}

// fetchAndRotate performs the fetch branch: fetch, diff against the prior
// current snapshot, promote current to latest, then write current, the
// dated archive, and the last-update marker.
func (s *Service) fetchAndRotate(ctx context.Context, source, domain, today string) *SourceOutcome {
	body, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("Fetch failed, no snapshot state mutated")
		return failureOutcome(fmt.Sprintf("fetch failed for %s: %v", source, err))
	}

	newURLs := []string{}
	var changeStats *differ.ChangeStats

	current, currentExists, err := s.snapshots.Current(domain)
	if err != nil {
		return failureOutcome(fmt.Sprintf("storage read failed for %s: %v", domain, err))
	}
	if currentExists {
		newURLs = s.urlDiffer.Diff(body, current)
		changeStats = s.contentDiffer.Summarize(current, body)
		if err := s.snapshots.SetLatest(domain, current); err != nil {
			return failureOutcome(fmt.Sprintf("storage write failed for %s: %v", domain, err))
		}
	}

	if err := s.snapshots.SetCurrent(domain, body); err != nil {
		return failureOutcome(fmt.Sprintf("storage write failed for %s: %v", domain, err))
	}
	if err := s.snapshots.ArchiveDated(domain, today, body); err != nil {
		return failureOutcome(fmt.Sprintf("storage write failed for %s: %v", domain, err))
	}
	if err := s.snapshots.SetLastUpdateDay(domain, today); err != nil {
		return failureOutcome(fmt.Sprintf("storage write failed for %s: %v", domain, err))
	}

	s.logger.Info().
		Str("source", source).
		Str("domain", domain).
		Int("new_urls", len(newURLs)).
		Msg("Snapshot rotated")

	return &SourceOutcome{
		Success:     true,
		Message:     "",
		ArchivedKey: datastore.DatedSnapshotKey(domain, today),
		NewURLs:     newURLs,
		ChangeStats: changeStats,
	}
}

// RunPass visits every registered source strictly sequentially, with a
// fixed pause between iterations, and aggregates per-domain and global
// statistics. A failure on one source never aborts the pass; the pass
// itself never fails.
func (s *Service) RunPass(ctx context.Context, force bool) *PassResult {
	result := NewPassResult()

	var sources []string
	if s.sources != nil {
		listed, err := s.sources.List()
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list sources, running empty pass")
		} else {
			sources = listed
		}
	}

	s.logger.Info().Int("source_count", len(sources)).Bool("force", force).Msg("Starting monitoring pass")

	for i, source := range sources {
		outcome := s.CheckSource(ctx, source, force)
		result.ProcessedCount++

		if !outcome.Success {
			result.ErrorCount++
			s.logger.Warn().Str("source", source).Str("message", outcome.Message).Msg("Source check failed")
		} else {
			if domain, err := urlhandler.ExtractDomain(source); err == nil {
				result.addSourceResult(domain, outcome.NewURLs)
			}
			if s.sink != nil && len(outcome.NewURLs) > 0 {
				s.sink.SourceUpdated(ctx, source, outcome)
			}
		}

		// Fixed inter-source pause to stay under origin rate limits
		if i < len(sources)-1 {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Pass interrupted by context cancellation")
				return result
			case <-time.After(s.cfg.RequestDelay()):
			}
		}
	}

	s.logger.Info().
		Int("processed", result.ProcessedCount).
		Int("errors", result.ErrorCount).
		Int("new_urls", len(result.AllNewURLs)).
		Msg("Monitoring pass completed")

	if s.sink != nil {
		s.sink.PassCompleted(ctx, result)
	}

	return result
}

// GetSnapshot exposes stored snapshot bodies to external collaborators.
func (s *Service) GetSnapshot(domain string, role datastore.SnapshotRole, day string) (string, bool, error) {
	return s.snapshots.GetSnapshot(domain, role, day)
}
