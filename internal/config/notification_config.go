package config

// NotificationConfig defines configuration for notifications
type NotificationConfig struct {
	AggregateReportDiscordWebhookURL string   `json:"aggregate_report_discord_webhook_url,omitempty" yaml:"aggregate_report_discord_webhook_url,omitempty" validate:"omitempty,url"`
	MentionRoleIDs                   []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
	NotifyOnFailure                  bool     `json:"notify_on_failure" yaml:"notify_on_failure"`
	SourceUpdateDiscordWebhookURL    string   `json:"source_update_discord_webhook_url,omitempty" yaml:"source_update_discord_webhook_url,omitempty" validate:"omitempty,url"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		AggregateReportDiscordWebhookURL: "",
		MentionRoleIDs:                   []string{},
		NotifyOnFailure:                  true,
		SourceUpdateDiscordWebhookURL:    "",
	}
}
