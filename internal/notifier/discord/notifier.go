package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sitewatch/internal/errorwrapper"
)

// Notifier posts message payloads to Discord webhooks.
type Notifier struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewNotifier creates a new Discord webhook notifier.
func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     logger.With().Str("component", "DiscordNotifier").Logger(),
	}
}

// Send posts payload to webhookURL. An empty webhook URL skips the send
// silently; delivery errors are returned to the caller for logging only.
func (n *Notifier) Send(ctx context.Context, webhookURL string, payload MessagePayload) error {
	if webhookURL == "" {
		n.logger.Warn().Msg("Discord webhook URL is not configured, skipping notification")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to marshal Discord payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create Discord request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to send Discord notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errorwrapper.NewError("Discord webhook returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Debug().Msg("Discord notification sent successfully")
	return nil
}
