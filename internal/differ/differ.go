package differ

import (
	"github.com/rs/zerolog"

	"sitewatch/internal/extractor"
)

// URLDiffer computes the URLs newly present in one sitemap body relative to
// an older one.
type URLDiffer struct {
	extractor *extractor.URLExtractor
	logger    zerolog.Logger
}

// NewURLDiffer creates a new URLDiffer.
func NewURLDiffer(urlExtractor *extractor.URLExtractor, logger zerolog.Logger) *URLDiffer {
	return &URLDiffer{
		extractor: urlExtractor,
		logger:    logger.With().Str("component", "URLDiffer").Logger(),
	}
}

// Diff returns every URL present in newerBody's extraction that is absent,
// by exact string equality, from olderBody's extraction. Order follows the
// newer document; duplicates in the newer document are not collapsed.
func (d *URLDiffer) Diff(newerBody, olderBody string) []string {
	newerURLs := d.extractor.ExtractURLs(newerBody)
	olderURLs := d.extractor.ExtractURLs(olderBody)

	olderSet := make(map[string]struct{}, len(olderURLs))
	for _, u := range olderURLs {
		olderSet[u] = struct{}{}
	}

	newURLs := make([]string, 0)
	for _, u := range newerURLs {
		if _, exists := olderSet[u]; !exists {
			newURLs = append(newURLs, u)
		}
	}

	d.logger.Debug().
		Int("newer_count", len(newerURLs)).
		Int("older_count", len(olderURLs)).
		Int("new_count", len(newURLs)).
		Msg("Computed URL diff")

	return newURLs
}
