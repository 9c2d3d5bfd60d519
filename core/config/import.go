package config

import "time"

// ImportConfig holds limits and defaults for the import engine.
type ImportConfig struct {
	// MaxRows caps the number of data lines read from one file.
	MaxRows int `mapstructure:"max_rows" default:"100000"`
	// JobTimeoutSeconds bounds the runtime of a single apply job.
	JobTimeoutSeconds int `mapstructure:"job_timeout_seconds" default:"600"`
	// DefaultCharset is used when detection is inconclusive and the settings declare none.
	DefaultCharset string `mapstructure:"default_charset" default:"utf-8"`
	// Timezone is the location used to normalize date-time cells.
	Timezone string `mapstructure:"timezone" default:"UTC"`
	// SettingsFile is a local key=value settings blob overlaid on the defaults.
	SettingsFile string `mapstructure:"settings_file" default:""`
	// SettingsObject is the object name of a settings blob in the storage bucket.
	SettingsObject string `mapstructure:"settings_object" default:""`
	// BaselineTTLSeconds is how long a loaded baseline is reused by re-reconciliation.
	BaselineTTLSeconds int `mapstructure:"baseline_ttl_seconds" default:"60"`
	// JobRetentionSeconds is how long finished jobs stay queryable.
	JobRetentionSeconds int `mapstructure:"job_retention_seconds" default:"3600"`
	// DetectDeleted pairs baseline records missing from the file as deletions.
	DetectDeleted bool `mapstructure:"detect_deleted" default:"true"`
}

// JobTimeout returns the job timeout as a duration, zero meaning unbounded.
func (c ImportConfig) JobTimeout() time.Duration {
	if c.JobTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// BaselineTTL returns the baseline cache lifetime.
func (c ImportConfig) BaselineTTL() time.Duration {
	return time.Duration(c.BaselineTTLSeconds) * time.Second
}

// JobRetention returns how long finished jobs are kept.
func (c ImportConfig) JobRetention() time.Duration {
	return time.Duration(c.JobRetentionSeconds) * time.Second
}

// Location resolves Timezone, falling back to UTC for an empty value.
func (c ImportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
