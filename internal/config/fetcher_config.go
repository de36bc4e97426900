package config

// FetcherConfig defines configuration for the sitemap document fetcher
type FetcherConfig struct {
	CacheMaxAgeSeconds int    `json:"cache_max_age_seconds,omitempty" yaml:"cache_max_age_seconds,omitempty" validate:"omitempty,min=0"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	MaxContentSize     int    `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"`
	MaxRetries         int    `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0"`
	RetryBaseDelaySecs int    `json:"retry_base_delay_secs,omitempty" yaml:"retry_base_delay_secs,omitempty" validate:"omitempty,min=1"`
	RetryMaxDelaySecs  int    `json:"retry_max_delay_secs,omitempty" yaml:"retry_max_delay_secs,omitempty" validate:"omitempty,min=1"`
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// NewDefaultFetcherConfig creates default fetcher configuration
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		CacheMaxAgeSeconds: DefaultFetcherCacheMaxAgeSecs,
		InsecureSkipVerify: DefaultFetcherInsecureSkipTLS,
		MaxContentSize:     DefaultFetcherMaxContentSize,
		MaxRetries:         DefaultFetcherMaxRetries,
		RetryBaseDelaySecs: DefaultFetcherRetryBaseDelaySec,
		RetryMaxDelaySecs:  DefaultFetcherRetryMaxDelaySec,
		TimeoutSeconds:     DefaultFetcherTimeoutSecs,
		UserAgent:          DefaultFetcherUserAgent,
	}
}
