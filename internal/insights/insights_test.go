package insights

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/config"
)

func newTestAggregator() *Aggregator {
	cfg := config.NewDefaultInsightsConfig()
	return NewAggregator(&cfg, zerolog.Nop())
}

func findKeyword(entries []KeywordCount, keyword string) (KeywordCount, bool) {
	for _, e := range entries {
		if e.Keyword == keyword {
			return e, true
		}
	}
	return KeywordCount{}, false
}

func TestKeywordStats_HyphenStrippingAndFilters(t *testing.T) {
	a := newTestAggregator()

	urls := []string{
		"https://a.com/tech-news/2024/",
		"https://a.com/tech-news/ai/",
	}

	stats := a.KeywordStats(urls)

	entry, ok := findKeyword(stats, "technews")
	require.True(t, ok, "hyphen-stripped keyword should be counted")
	assert.GreaterOrEqual(t, entry.Count, 2)

	_, ok = findKeyword(stats, "2024")
	assert.False(t, ok, "purely numeric segments must be excluded")

	// "ai" is only two characters long
	_, ok = findKeyword(stats, "ai")
	assert.False(t, ok)
}

func TestKeywordStats_StopwordsAndDots(t *testing.T) {
	a := newTestAggregator()

	urls := []string{
		"https://a.com/news/security/report.html",
		"https://a.com/category/security/",
	}

	stats := a.KeywordStats(urls)

	entry, ok := findKeyword(stats, "security")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)

	for _, excluded := range []string{"news", "category", "report.html"} {
		_, ok := findKeyword(stats, excluded)
		assert.False(t, ok, "expected %q to be excluded", excluded)
	}
}

func TestKeywordStats_OrderingAndLimit(t *testing.T) {
	cfg := config.NewDefaultInsightsConfig()
	cfg.TopKeywords = 2
	a := NewAggregator(&cfg, zerolog.Nop())

	urls := []string{
		"https://a.com/golang/golang/golang/",
		"https://a.com/python/python/",
		"https://a.com/rust/",
	}

	stats := a.KeywordStats(urls)
	require.Len(t, stats, 2)
	assert.Equal(t, "golang", stats[0].Keyword)
	assert.Equal(t, 3, stats[0].Count)
	assert.Equal(t, "python", stats[1].Keyword)
}

func TestKeywordStats_SkipsUnparseableURLs(t *testing.T) {
	a := newTestAggregator()

	stats := a.KeywordStats([]string{"://bad", "/relative/path", "https://a.com/valid-topic/"})
	_, ok := findKeyword(stats, "validtopic")
	assert.True(t, ok)
	assert.Len(t, stats, 1)
}

func TestDomainStats(t *testing.T) {
	a := newTestAggregator()

	urls := []string{
		"https://blog.a.com/x",
		"https://blog.a.com/y",
		"https://b.org/z",
	}

	stats := a.DomainStats(urls)
	require.Len(t, stats, 2)
	assert.Equal(t, DomainCount{Domain: "blog.a.com", Count: 2}, stats[0])
	assert.Equal(t, DomainCount{Domain: "b.org", Count: 1}, stats[1])
}

func TestBaseDomainStats_CollapsesSubdomains(t *testing.T) {
	a := newTestAggregator()

	urls := []string{
		"https://blog.a.com/x",
		"https://shop.a.com/y",
		"https://b.org/z",
	}

	stats := a.BaseDomainStats(urls)
	require.Len(t, stats, 2)
	assert.Equal(t, DomainCount{Domain: "a.com", Count: 2}, stats[0])
	assert.Equal(t, DomainCount{Domain: "b.org", Count: 1}, stats[1])
}

func TestNewAggregator_CustomStopwords(t *testing.T) {
	cfg := config.NewDefaultInsightsConfig()
	cfg.Stopwords = []string{"Security"}
	a := NewAggregator(&cfg, zerolog.Nop())

	stats := a.KeywordStats([]string{"https://a.com/security/news-today/"})

	_, ok := findKeyword(stats, "security")
	assert.False(t, ok, "custom stopword list replaces the built-in one")

	// "news" is a built-in stopword but not in the custom list
	_, ok = findKeyword(stats, "newstoday")
	assert.True(t, ok)
}
