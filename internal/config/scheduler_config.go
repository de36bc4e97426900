package config

// SchedulerConfig defines configuration for the periodic pass scheduler
type SchedulerConfig struct {
	CronSpec     string `json:"cron_spec,omitempty" yaml:"cron_spec,omitempty" validate:"omitempty,cronspec"`
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CronSpec:     DefaultSchedulerCronSpec,
		SQLiteDBPath: DefaultSchedulerSQLiteDBPath,
	}
}
