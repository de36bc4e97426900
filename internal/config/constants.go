package config

const (
	// Fetcher Defaults
	DefaultFetcherUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultFetcherTimeoutSecs       = 30
	DefaultFetcherCacheMaxAgeSecs   = 300
	DefaultFetcherMaxContentSize    = 10 * 1024 * 1024
	DefaultFetcherInsecureSkipTLS   = false
	DefaultFetcherMaxRetries        = 2
	DefaultFetcherRetryBaseDelaySec = 2
	DefaultFetcherRetryMaxDelaySec  = 30

	// Storage Defaults
	DefaultStorageSQLitePath = "database/sitewatch.db"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Monitor Defaults
	DefaultMonitorRequestDelayMs = 500

	// Insights Defaults
	DefaultInsightsTopKeywords = 10
	DefaultInsightsTopDomains  = 10

	// Scheduler Defaults
	DefaultSchedulerCronSpec     = "0 8 * * *" // daily pass at 08:00 UTC
	DefaultSchedulerSQLiteDBPath = "database/scheduler/pass_history.db"
)
