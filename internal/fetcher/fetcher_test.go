package fetcher

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitewatch/internal/config"
	"sitewatch/internal/errorwrapper"
)

func newTestFetcher(mutate func(*config.FetcherConfig)) *Fetcher {
	cfg := config.NewDefaultFetcherConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewFetcher(&cfg, zerolog.Nop())
}

func TestFetcher_SendsBrowserHeaders(t *testing.T) {
	var gotUserAgent, gotCacheControl string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Write([]byte("<urlset></urlset>"))
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	body, err := f.Fetch(context.Background(), server.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, "<urlset></urlset>", body)
	assert.Equal(t, config.DefaultFetcherUserAgent, gotUserAgent)
	assert.Equal(t, "max-age=300", gotCacheControl)
}

func TestFetcher_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	_, err := f.Fetch(context.Background(), server.URL+"/missing.xml")
	require.Error(t, err)

	var fetchErr *errorwrapper.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetcher_GzipDecompression(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<urlset><url><loc>https://a.com/x</loc></url></urlset>"))
		gz.Close()
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	body, err := f.Fetch(context.Background(), server.URL+"/sitemap.xml.gz")
	require.NoError(t, err)
	assert.Contains(t, body, "https://a.com/x")
}

func TestFetcher_InvalidGzipBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not gzip data"))
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	_, err := f.Fetch(context.Background(), server.URL+"/sitemap.xml.gz")
	require.Error(t, err)

	var decompErr *errorwrapper.DecompressionError
	assert.ErrorAs(t, err, &decompErr)
}

func TestFetcher_PlainXMLNotDecompressed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<urlset></urlset>"))
	}))
	defer server.Close()

	f := newTestFetcher(nil)
	body, err := f.Fetch(context.Background(), server.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, "<urlset></urlset>", body)
}

func TestFetcher_ContentTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer server.Close()

	f := newTestFetcher(func(cfg *config.FetcherConfig) {
		cfg.MaxContentSize = 16
	})
	_, err := f.Fetch(context.Background(), server.URL+"/sitemap.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content too large")
}

func TestIsGzipURL(t *testing.T) {
	assert.True(t, isGzipURL("https://a.com/sitemap.xml.gz"))
	assert.True(t, isGzipURL("https://a.com/SITEMAP.XML.GZ"))
	// Query strings do not make a document gzip
	assert.False(t, isGzipURL("https://a.com/sitemap.xml?format=gz"))
	assert.False(t, isGzipURL("https://a.com/sitemap.xml"))
}
