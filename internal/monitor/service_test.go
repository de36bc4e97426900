package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/config"
	"sitewatch/internal/datastore"
	"sitewatch/internal/differ"
	"sitewatch/internal/extractor"
	"sitewatch/internal/fetcher"
)

// sitemapServer serves a swappable sitemap body and counts hits.
type sitemapServer struct {
	mu     sync.Mutex
	body   string
	status int
	hits   int
	server *httptest.Server
}

func newSitemapServer(t *testing.T, body string) *sitemapServer {
	t.Helper()
	s := &sitemapServer{body: body, status: http.StatusOK}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.hits++
		if s.status != http.StatusOK {
			http.Error(w, "unavailable", s.status)
			return
		}
		w.Write([]byte(s.body))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *sitemapServer) setBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

func (s *sitemapServer) setStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *sitemapServer) hitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *sitemapServer) domain(t *testing.T) string {
	t.Helper()
	parsed, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	return parsed.Hostname()
}

type staticLister struct {
	sources []string
}

func (l *staticLister) List() ([]string, error) {
	return l.sources, nil
}

// recordingSink captures sink invocations for assertions.
type recordingSink struct {
	mu          sync.Mutex
	updates     []string
	passResults []*PassResult
}

func (r *recordingSink) SourceUpdated(_ context.Context, source string, _ *SourceOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, source)
}

func (r *recordingSink) PassCompleted(_ context.Context, result *PassResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passResults = append(r.passResults, result)
}

func sitemapBody(urls ...string) string {
	body := "<urlset>"
	for _, u := range urls {
		body += "<url><loc>" + u + "</loc></url>"
	}
	return body + "</urlset>"
}

func newTestService(t *testing.T) (*Service, *datastore.SnapshotStore) {
	t.Helper()
	zl := zerolog.Nop()

	monitorCfg := config.NewDefaultMonitorConfig()
	monitorCfg.RequestDelayMs = 0

	fetcherCfg := config.NewDefaultFetcherConfig()

	snapshots := datastore.NewSnapshotStore(datastore.NewMemoryStore(), zl)
	urlExtractor := extractor.NewURLExtractor(zl)

	svc := NewService(
		&monitorCfg,
		snapshots,
		fetcher.NewFetcher(&fetcherCfg, zl),
		differ.NewURLDiffer(urlExtractor, zl),
		differ.NewContentDiffer(zl),
		datastore.NewDomainMutexManager(zl),
		zl,
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	}
	return svc, snapshots
}

func TestCheckSource_FirstRunCreatesStateWithEmptyDiff(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1", "https://a.com/2"))
	svc, snapshots := newTestService(t)
	domain := server.domain(t)

	outcome := svc.CheckSource(context.Background(), server.server.URL+"/sitemap.xml", false)
	require.True(t, outcome.Success, outcome.Message)
	assert.Empty(t, outcome.NewURLs, "first observation has no prior version to diff against")
	assert.Equal(t, datastore.DatedSnapshotKey(domain, "20260828"), outcome.ArchivedKey)

	current, exists, err := snapshots.Current(domain)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Contains(t, current, "https://a.com/1")

	day, exists, err := snapshots.LastUpdateDay(domain)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "20260828", day)

	// No prior version existed, so no latest slot was written
	_, exists, err = snapshots.Latest(domain)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckSource_SameDayThrottleSkipsFetch(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, _ := newTestService(t)
	source := server.server.URL + "/sitemap.xml"

	require.True(t, svc.CheckSource(context.Background(), source, false).Success)
	hitsAfterFirst := server.hitCount()

	outcome := svc.CheckSource(context.Background(), source, false)
	require.True(t, outcome.Success)
	assert.Equal(t, "already updated today", outcome.Message)
	assert.Empty(t, outcome.NewURLs)
	assert.Equal(t, hitsAfterFirst, server.hitCount(), "throttled check must not hit the origin")
}

func TestCheckSource_ThrottledWithBothSnapshotsReturnsStoredDiff(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, _ := newTestService(t)
	source := server.server.URL + "/sitemap.xml"

	require.True(t, svc.CheckSource(context.Background(), source, false).Success)

	server.setBody(sitemapBody("https://a.com/1", "https://a.com/2"))
	forced := svc.CheckSource(context.Background(), source, true)
	require.True(t, forced.Success)
	assert.Equal(t, []string{"https://a.com/2"}, forced.NewURLs)

	// Same day, unforced: the stored current/latest diff is replayed
	throttled := svc.CheckSource(context.Background(), source, false)
	require.True(t, throttled.Success)
	assert.Equal(t, "already updated today, not sent", throttled.Message)
	assert.Equal(t, []string{"https://a.com/2"}, throttled.NewURLs)
}

func TestCheckSource_ForceBypassesThrottleAndRotates(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, snapshots := newTestService(t)
	domain := server.domain(t)
	source := server.server.URL + "/sitemap.xml"

	require.True(t, svc.CheckSource(context.Background(), source, false).Success)
	firstBody := sitemapBody("https://a.com/1")

	server.setBody(sitemapBody("https://a.com/1", "https://a.com/2"))
	outcome := svc.CheckSource(context.Background(), source, true)
	require.True(t, outcome.Success)
	assert.Equal(t, []string{"https://a.com/2"}, outcome.NewURLs)
	require.NotNil(t, outcome.ChangeStats)
	assert.True(t, outcome.ChangeStats.HasChanges())

	// The pre-fetch current body was promoted into the latest slot
	latest, exists, err := snapshots.Latest(domain)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, firstBody, latest)

	current, _, err := snapshots.Current(domain)
	require.NoError(t, err)
	assert.Contains(t, current, "https://a.com/2")
}

func TestCheckSource_FetchFailureMutatesNothing(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, snapshots := newTestService(t)
	domain := server.domain(t)
	source := server.server.URL + "/sitemap.xml"

	require.True(t, svc.CheckSource(context.Background(), source, false).Success)

	server.setStatus(http.StatusInternalServerError)
	outcome := svc.CheckSource(context.Background(), source, true)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "fetch failed")

	// The stored current snapshot is untouched
	current, exists, err := snapshots.Current(domain)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, sitemapBody("https://a.com/1"), current)
}

func TestCheckSource_InvalidSourceFailsWithoutFetch(t *testing.T) {
	svc, _ := newTestService(t)

	outcome := svc.CheckSource(context.Background(), "http://bad host/sitemap.xml", false)
	assert.False(t, outcome.Success)
}

func TestRunPass_AggregatesAndNotifies(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, _ := newTestService(t)
	domain := server.domain(t)
	source := server.server.URL + "/sitemap.xml"

	// Seed state, then publish a new URL
	require.True(t, svc.CheckSource(context.Background(), source, false).Success)
	server.setBody(sitemapBody("https://a.com/1", "https://a.com/new"))

	sink := &recordingSink{}
	svc.SetSourceLister(&staticLister{sources: []string{source, "http://bad host/sitemap.xml"}})
	svc.SetResultSink(sink)

	result := svc.RunPass(context.Background(), true)

	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, []string{"https://a.com/new"}, result.AllNewURLs)

	require.Contains(t, result.PerDomain, domain)
	assert.Equal(t, 1, result.PerDomain[domain].TotalNew)

	assert.Equal(t, []string{source}, sink.updates)
	require.Len(t, sink.passResults, 1)
	assert.Same(t, result, sink.passResults[0])
}

func TestRunPass_NoSinkCallForSourcesWithoutNewURLs(t *testing.T) {
	server := newSitemapServer(t, sitemapBody("https://a.com/1"))
	svc, _ := newTestService(t)
	source := server.server.URL + "/sitemap.xml"

	sink := &recordingSink{}
	svc.SetSourceLister(&staticLister{sources: []string{source}})
	svc.SetResultSink(sink)

	result := svc.RunPass(context.Background(), false)

	assert.Equal(t, 1, result.ProcessedCount)
	assert.Zero(t, result.ErrorCount)
	assert.Empty(t, result.AllNewURLs)
	assert.Empty(t, sink.updates, "first observation yields no new URLs, so no per-source message")
	assert.Len(t, sink.passResults, 1)
}

func TestRunPass_WithoutListerRunsEmptyPass(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.RunPass(context.Background(), false)
	assert.Zero(t, result.ProcessedCount)
	assert.Zero(t, result.ErrorCount)
}
