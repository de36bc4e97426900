package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sitewatch/internal/monitor"
	"sitewatch/internal/notifier/discord"
)

const maxListedURLs = 15

// formatSourceUpdate builds the per-source embed for newly discovered URLs.
func (nh *NotificationHelper) formatSourceUpdate(source string, outcome *monitor.SourceOutcome) discord.MessagePayload {
	embed := discord.Embed{
		Title:       "New sitemap URLs detected",
		Description: source,
		Color:       discord.ColorGreen,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []discord.EmbedField{
			{Name: "New URLs", Value: fmt.Sprintf("%d", len(outcome.NewURLs)), Inline: true},
		},
	}

	if outcome.ChangeStats.HasChanges() {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   "Document change",
			Value:  fmt.Sprintf("+%d / -%d lines", outcome.ChangeStats.LinesAdded, outcome.ChangeStats.LinesRemoved),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, discord.EmbedField{
		Name:  "URLs",
		Value: formatURLList(outcome.NewURLs),
	})

	return discord.MessagePayload{
		Content: nh.mentions(),
		Embeds:  []discord.Embed{embed},
	}
}

// formatPassReport builds the aggregate cross-source report embed.
func (nh *NotificationHelper) formatPassReport(result *monitor.PassResult) discord.MessagePayload {
	color := discord.ColorBlue
	if result.ErrorCount > 0 {
		color = discord.ColorOrange
	}

	embed := discord.Embed{
		Title:     "Sitemap monitoring report",
		Color:     color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []discord.EmbedField{
			{Name: "Sources processed", Value: fmt.Sprintf("%d", result.ProcessedCount), Inline: true},
			{Name: "Failures", Value: fmt.Sprintf("%d", result.ErrorCount), Inline: true},
			{Name: "New URLs", Value: fmt.Sprintf("%d", len(result.AllNewURLs)), Inline: true},
		},
		Footer: &discord.EmbedFooter{Text: "sitewatch"},
	}

	if perDomain := formatPerDomain(result); perDomain != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Per domain", Value: perDomain})
	}

	if keywords := nh.aggregator.KeywordStats(result.AllNewURLs); len(keywords) > 0 {
		parts := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			parts = append(parts, fmt.Sprintf("%s (%d)", kw.Keyword, kw.Count))
		}
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Top keywords", Value: strings.Join(parts, ", ")})
	}

	if domains := nh.aggregator.DomainStats(result.AllNewURLs); len(domains) > 0 {
		parts := make([]string, 0, len(domains))
		for _, dc := range domains {
			parts = append(parts, fmt.Sprintf("%s (%d)", dc.Domain, dc.Count))
		}
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Top domains", Value: strings.Join(parts, ", ")})
	}

	return discord.MessagePayload{
		Content: nh.mentions(),
		Embeds:  []discord.Embed{embed},
	}
}

// mentions renders the configured role mentions for the message content.
func (nh *NotificationHelper) mentions() string {
	if len(nh.cfg.MentionRoleIDs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(nh.cfg.MentionRoleIDs))
	for _, roleID := range nh.cfg.MentionRoleIDs {
		parts = append(parts, fmt.Sprintf("<@&%s>", roleID))
	}
	return strings.Join(parts, " ")
}

// formatURLList renders up to maxListedURLs entries, noting the overflow.
func formatURLList(urls []string) string {
	if len(urls) == 0 {
		return "none"
	}
	listed := urls
	if len(listed) > maxListedURLs {
		listed = listed[:maxListedURLs]
	}
	var sb strings.Builder
	for _, u := range listed {
		sb.WriteString("- ")
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	if len(urls) > maxListedURLs {
		sb.WriteString(fmt.Sprintf("… and %d more", len(urls)-maxListedURLs))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatPerDomain renders the per-domain new URL counts.
func formatPerDomain(result *monitor.PassResult) string {
	if len(result.PerDomain) == 0 {
		return ""
	}
	domains := make([]string, 0, len(result.PerDomain))
	for domain := range result.PerDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	parts := make([]string, 0, len(domains))
	for _, domain := range domains {
		parts = append(parts, fmt.Sprintf("%s: %d", domain, result.PerDomain[domain].TotalNew))
	}
	return strings.Join(parts, "\n")
}
