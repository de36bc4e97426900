package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"sitewatch/internal/config"
	"sitewatch/internal/insights"
	"sitewatch/internal/monitor"
	"sitewatch/internal/notifier/discord"
)

func newWebhookCounter(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newHelperWithWebhook(webhookURL string, notifyOnFailure bool) *NotificationHelper {
	cfg := config.NewDefaultNotificationConfig()
	cfg.AggregateReportDiscordWebhookURL = webhookURL
	cfg.SourceUpdateDiscordWebhookURL = webhookURL
	cfg.NotifyOnFailure = notifyOnFailure

	insightsCfg := config.NewDefaultInsightsConfig()
	return NewNotificationHelper(
		cfg,
		discord.NewNotifier(zerolog.Nop()),
		insights.NewAggregator(&insightsCfg, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestPassCompleted_SkipsUneventfulPass(t *testing.T) {
	server, hits := newWebhookCounter(t)
	nh := newHelperWithWebhook(server.URL, true)

	nh.PassCompleted(context.Background(), monitor.NewPassResult())
	assert.Zero(t, hits.Load(), "nothing new and no failures means no report")
}

func TestPassCompleted_SendsOnNewURLs(t *testing.T) {
	server, hits := newWebhookCounter(t)
	nh := newHelperWithWebhook(server.URL, true)

	result := monitor.NewPassResult()
	result.AllNewURLs = []string{"https://a.com/x"}
	nh.PassCompleted(context.Background(), result)

	assert.Equal(t, int64(1), hits.Load())
}

func TestPassCompleted_SendsOnFailuresWhenConfigured(t *testing.T) {
	server, hits := newWebhookCounter(t)

	result := monitor.NewPassResult()
	result.ProcessedCount = 1
	result.ErrorCount = 1

	newHelperWithWebhook(server.URL, true).PassCompleted(context.Background(), result)
	assert.Equal(t, int64(1), hits.Load())

	newHelperWithWebhook(server.URL, false).PassCompleted(context.Background(), result)
	assert.Equal(t, int64(1), hits.Load(), "failure-only pass is silent when notify_on_failure is off")
}

func TestSourceUpdated_Sends(t *testing.T) {
	server, hits := newWebhookCounter(t)
	nh := newHelperWithWebhook(server.URL, true)

	outcome := &monitor.SourceOutcome{Success: true, NewURLs: []string{"https://a.com/x"}}
	nh.SourceUpdated(context.Background(), "https://a.com/sitemap.xml", outcome)

	assert.Equal(t, int64(1), hits.Load())
}
