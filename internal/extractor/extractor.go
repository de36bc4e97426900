package extractor

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// locTagRegex captures the text between <loc> tag pairs, case-insensitively,
// across newlines. Attribute junk inside the opening tag is tolerated.
var locTagRegex = regexp.MustCompile(`(?is)<loc[^>]*>(.*?)</loc>`)

// URLExtractor pulls absolute URLs out of sitemap-style documents.
//
// This is a deliberate tolerant-extraction policy, not a strict XML parse:
// real-world sitemaps carry stray tags and encoding quirks, and a textual
// scan keeps them usable. A stricter parser can be swapped in behind the
// same ExtractURLs contract.
type URLExtractor struct {
	logger zerolog.Logger
}

// NewURLExtractor creates a new URLExtractor.
func NewURLExtractor(logger zerolog.Logger) *URLExtractor {
	return &URLExtractor{
		logger: logger.With().Str("component", "URLExtractor").Logger(),
	}
}

// ExtractURLs scans body for <loc> entries and returns the trimmed absolute
// URLs in document order. It never fails; a document that yields zero URLs
// is logged as a parse degradation and produces an empty slice.
func (e *URLExtractor) ExtractURLs(body string) []string {
	urls := make([]string, 0)
	if body == "" {
		return urls
	}

	for _, match := range locTagRegex.FindAllStringSubmatch(body, -1) {
		if len(match) < 2 {
			continue
		}
		candidate := strings.TrimSpace(match[1])
		if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
			urls = append(urls, candidate)
		}
	}

	if len(urls) == 0 {
		e.logger.Warn().Int("body_size", len(body)).Msg("Extraction degraded to zero URLs")
	} else {
		e.logger.Debug().Int("url_count", len(urls)).Msg("Extracted URLs from document")
	}

	return urls
}
