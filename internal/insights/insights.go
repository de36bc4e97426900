package insights

import (
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"sitewatch/internal/config"
)

// KeywordCount is one keyword frequency entry.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// DomainCount is one domain frequency entry.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// defaultStopwords are path separator words that carry no topical signal.
var defaultStopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "from": {},
	"page": {}, "pages": {}, "index": {}, "html": {}, "article": {},
	"articles": {}, "category": {}, "tag": {}, "tags": {}, "archive": {},
	"news": {}, "post": {}, "posts": {}, "sitemap": {}, "www": {},
}

// Aggregator derives keyword and domain frequency statistics from a batch
// of newly discovered URLs.
type Aggregator struct {
	cfg       *config.InsightsConfig
	stopwords map[string]struct{}
	logger    zerolog.Logger
}

// NewAggregator creates a new Aggregator. A nil stopword list in the config
// selects the built-in set.
func NewAggregator(cfg *config.InsightsConfig, logger zerolog.Logger) *Aggregator {
	stopwords := defaultStopwords
	if cfg.Stopwords != nil {
		stopwords = make(map[string]struct{}, len(cfg.Stopwords))
		for _, w := range cfg.Stopwords {
			stopwords[strings.ToLower(w)] = struct{}{}
		}
	}

	return &Aggregator{
		cfg:       cfg,
		stopwords: stopwords,
		logger:    logger.With().Str("component", "InsightAggregator").Logger(),
	}
}

// KeywordStats returns the most frequent path keywords across urls, ordered
// by descending count with a stable tie order. URLs that fail to parse as
// absolute URLs are skipped silently.
func (a *Aggregator) KeywordStats(urls []string) []KeywordCount {
	counts := make(map[string]int)

	for _, rawURL := range urls {
		parsed, err := url.Parse(rawURL)
		if err != nil || !parsed.IsAbs() {
			continue
		}
		for _, segment := range strings.Split(parsed.Path, "/") {
			keyword, ok := a.normalizeSegment(segment)
			if !ok {
				continue
			}
			counts[keyword]++
		}
	}

	entries := make([]KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		entries = append(entries, KeywordCount{Keyword: keyword, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Keyword < entries[j].Keyword
	})

	return truncateKeywords(entries, a.cfg.TopKeywords)
}

// normalizeSegment filters and normalizes one path segment into a keyword.
// Kept segments are longer than 2 characters, not purely numeric, contain
// no dot, and are not stopwords; they are lowercased with hyphens stripped.
func (a *Aggregator) normalizeSegment(segment string) (string, bool) {
	segment = strings.TrimSpace(segment)
	if len(segment) <= 2 {
		return "", false
	}
	if strings.Contains(segment, ".") {
		return "", false
	}
	if isNumeric(segment) {
		return "", false
	}
	lowered := strings.ToLower(segment)
	if _, stop := a.stopwords[lowered]; stop {
		return "", false
	}
	return strings.ReplaceAll(lowered, "-", ""), true
}

// DomainStats returns URL counts grouped by host, descending.
func (a *Aggregator) DomainStats(urls []string) []DomainCount {
	return a.domainStats(urls, func(host string) (string, bool) {
		return host, true
	})
}

// BaseDomainStats returns URL counts grouped by registrable domain
// (public-suffix aware), descending. Hosts without a registrable domain
// (IPs, bare TLDs) are skipped.
func (a *Aggregator) BaseDomainStats(urls []string) []DomainCount {
	return a.domainStats(urls, func(host string) (string, bool) {
		base, err := publicsuffix.EffectiveTLDPlusOne(host)
		if err != nil {
			return "", false
		}
		return base, true
	})
}

func (a *Aggregator) domainStats(urls []string, keyFunc func(host string) (string, bool)) []DomainCount {
	counts := make(map[string]int)

	for _, rawURL := range urls {
		parsed, err := url.Parse(rawURL)
		if err != nil || !parsed.IsAbs() {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		if host == "" {
			continue
		}
		key, ok := keyFunc(host)
		if !ok {
			continue
		}
		counts[key]++
	}

	entries := make([]DomainCount, 0, len(counts))
	for domain, count := range counts {
		entries = append(entries, DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Domain < entries[j].Domain
	})

	if a.cfg.TopDomains > 0 && len(entries) > a.cfg.TopDomains {
		entries = entries[:a.cfg.TopDomains]
	}
	return entries
}

func truncateKeywords(entries []KeywordCount, limit int) []KeywordCount {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// isNumeric reports whether s consists only of ASCII digits.
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
