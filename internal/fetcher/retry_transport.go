package fetcher

import (
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sitewatch/internal/config"
)

// retryableStatusCodes are transient origin conditions worth another attempt.
var retryableStatusCodes = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// RetryTransport wraps an http.RoundTripper with exponential-backoff retries
// for transient failures and rate limiting.
type RetryTransport struct {
	base   http.RoundTripper
	cfg    *config.FetcherConfig
	logger zerolog.Logger
}

// NewRetryTransport creates a new RetryTransport over base.
func NewRetryTransport(base http.RoundTripper, cfg *config.FetcherConfig, logger zerolog.Logger) *RetryTransport {
	return &RetryTransport{
		base:   base,
		cfg:    cfg,
		logger: logger.With().Str("component", "RetryTransport").Logger(),
	}
}

// RoundTrip implements http.RoundTripper. Request bodies are never sent, so
// a shallow clone per attempt is sufficient.
func (rt *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= rt.cfg.MaxRetries; attempt++ {
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		default:
		}

		resp, err := rt.base.RoundTrip(req.Clone(req.Context()))
		if err != nil {
			lastErr = err
			lastResp = nil
			if attempt < rt.cfg.MaxRetries {
				rt.logger.Debug().
					Str("url", req.URL.String()).
					Int("attempt", attempt+1).
					Err(err).
					Msg("Network error, retrying")
				continue
			}
			break
		}

		lastResp = resp
		lastErr = nil

		if retryableStatusCodes[resp.StatusCode] && attempt < rt.cfg.MaxRetries {
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
			if err := rt.waitForRetry(req, attempt, resp.StatusCode); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	// Retries exhausted on a retryable status; hand the last response back
	return lastResp, nil
}

// waitForRetry sleeps for the backoff delay or aborts on context cancellation.
func (rt *RetryTransport) waitForRetry(req *http.Request, attempt, statusCode int) error {
	delay := rt.calculateDelay(attempt)

	rt.logger.Warn().
		Str("url", req.URL.String()).
		Int("status_code", statusCode).
		Int("attempt", attempt+1).
		Int("max_retries", rt.cfg.MaxRetries).
		Dur("delay", delay).
		Msg("Transient origin failure, waiting before retry")

	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-time.After(delay):
		return nil
	}
}

// calculateDelay returns the exponential backoff delay with jitter, capped
// at the configured maximum.
func (rt *RetryTransport) calculateDelay(attempt int) time.Duration {
	baseDelay := time.Duration(rt.cfg.RetryBaseDelaySecs) * time.Second
	maxDelay := time.Duration(rt.cfg.RetryMaxDelaySecs) * time.Second

	if attempt <= 0 {
		return baseDelay
	}

	delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
	if delay > maxDelay {
		delay = maxDelay
	}

	if ms := delay.Milliseconds() / 10; ms > 0 {
		delay += time.Duration(rand.Int63n(ms)) * time.Millisecond
	}

	return delay
}
