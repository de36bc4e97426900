package config

import "time"

// MonitorConfig defines configuration for the monitoring orchestrator
type MonitorConfig struct {
	// RequestDelayMs is the fixed pause between sequential source checks
	// within a pass, to avoid overloading origin servers.
	RequestDelayMs int `json:"request_delay_ms,omitempty" yaml:"request_delay_ms,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		RequestDelayMs: DefaultMonitorRequestDelayMs,
	}
}

// RequestDelay returns the inter-source delay as a duration
func (c MonitorConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}
