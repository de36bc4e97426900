package fetcher

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sitewatch/internal/config"
	"sitewatch/internal/errorwrapper"
)

// Fetcher retrieves sitemap documents over HTTP, transparently decompressing
// gzip-encoded bodies.
type Fetcher struct {
	httpClient *http.Client
	cfg        *config.FetcherConfig
	logger     zerolog.Logger
}

// NewFetcher creates a new Fetcher with an HTTP client built from the
// fetcher configuration.
func NewFetcher(cfg *config.FetcherConfig, logger zerolog.Logger) *Fetcher {
	baseTransport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
	}
	client := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		Transport: NewRetryTransport(baseTransport, cfg, logger),
	}

	return &Fetcher{
		httpClient: client,
		cfg:        cfg,
		logger:     logger.With().Str("component", "Fetcher").Logger(),
	}
}

// Fetch issues an HTTP GET for rawURL and returns the document body as text.
// A realistic browser user-agent is sent to avoid origin blocking, along
// with a short-lived cache hint to reduce duplicate origin load within a
// burst of calls. URLs ending in .gz are streamed through gzip decompression.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errorwrapper.WrapError(err, fmt.Sprintf("creating request for %s", rawURL))
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", f.cfg.CacheMaxAgeSeconds))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", rawURL).Msg("Failed to execute HTTP request")
		return "", errorwrapper.NewFetchErrorWithCause(rawURL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn().Str("url", rawURL).Int("status_code", resp.StatusCode).Msg("Received non-OK HTTP status")
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errorwrapper.NewFetchError(rawURL, resp.StatusCode, string(bodyBytes))
	}

	reader := io.Reader(resp.Body)
	if isGzipURL(rawURL) {
		gzReader, gzErr := gzip.NewReader(resp.Body)
		if gzErr != nil {
			f.logger.Error().Err(gzErr).Str("url", rawURL).Msg("Gzip body stream missing or invalid")
			return "", errorwrapper.NewDecompressionError(rawURL, gzErr)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(reader, int64(f.cfg.MaxContentSize)+1))
	if err != nil {
		if isGzipURL(rawURL) {
			return "", errorwrapper.NewDecompressionError(rawURL, err)
		}
		return "", errorwrapper.WrapError(err, "failed to read response body")
	}

	if len(bodyBytes) > f.cfg.MaxContentSize {
		return "", errorwrapper.NewError("content too large: more than %d bytes from %s", f.cfg.MaxContentSize, rawURL)
	}

	f.logger.Debug().Str("url", rawURL).Int("size", len(bodyBytes)).Msg("Document fetched successfully")
	return string(bodyBytes), nil
}

// isGzipURL reports whether the URL path names a gzip-compressed document.
func isGzipURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".gz")
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".gz")
}
