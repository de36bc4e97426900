package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"sitewatch/internal/config"
	"sitewatch/internal/insights"
	"sitewatch/internal/monitor"
	"sitewatch/internal/notifier/discord"
)

// NotificationHelper forwards monitoring results to Discord webhooks. It
// implements the monitor.ResultSink contract: delivery failures are logged
// and never retried, and nothing propagates back into the orchestrator.
type NotificationHelper struct {
	cfg        config.NotificationConfig
	discord    *discord.Notifier
	aggregator *insights.Aggregator
	logger     zerolog.Logger
}

// NewNotificationHelper creates a new NotificationHelper.
func NewNotificationHelper(
	cfg config.NotificationConfig,
	discordNotifier *discord.Notifier,
	aggregator *insights.Aggregator,
	logger zerolog.Logger,
) *NotificationHelper {
	return &NotificationHelper{
		cfg:        cfg,
		discord:    discordNotifier,
		aggregator: aggregator,
		logger:     logger.With().Str("component", "NotificationHelper").Logger(),
	}
}

// SourceUpdated sends a single per-source notification. The orchestrator
// only calls this when new URLs exist, keeping unchanged sources silent.
func (nh *NotificationHelper) SourceUpdated(ctx context.Context, source string, outcome *monitor.SourceOutcome) {
	payload := nh.formatSourceUpdate(source, outcome)
	if err := nh.discord.Send(ctx, nh.cfg.SourceUpdateDiscordWebhookURL, payload); err != nil {
		nh.logger.Error().Err(err).Str("source", source).Msg("Failed to send source update notification")
	}
}

// PassCompleted sends the aggregated cross-source report, including keyword
// and domain insight statistics over the batch of newly discovered URLs.
func (nh *NotificationHelper) PassCompleted(ctx context.Context, result *monitor.PassResult) {
	if len(result.AllNewURLs) == 0 && !(nh.cfg.NotifyOnFailure && result.ErrorCount > 0) {
		nh.logger.Debug().Msg("Nothing to report for this pass")
		return
	}

	payload := nh.formatPassReport(result)
	if err := nh.discord.Send(ctx, nh.cfg.AggregateReportDiscordWebhookURL, payload); err != nil {
		nh.logger.Error().Err(err).Msg("Failed to send aggregate report notification")
	}
}
