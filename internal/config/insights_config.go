package config

// InsightsConfig defines configuration for keyword/domain insight aggregation
type InsightsConfig struct {
	Stopwords   []string `json:"stopwords,omitempty" yaml:"stopwords,omitempty"`
	TopDomains  int      `json:"top_domains,omitempty" yaml:"top_domains,omitempty" validate:"omitempty,min=1"`
	TopKeywords int      `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultInsightsConfig creates default insights configuration
func NewDefaultInsightsConfig() InsightsConfig {
	return InsightsConfig{
		Stopwords:   nil, // nil means the built-in stopword set
		TopDomains:  DefaultInsightsTopDomains,
		TopKeywords: DefaultInsightsTopKeywords,
	}
}
