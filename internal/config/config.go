package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment. Every field has a
// default that keeps the app fully usable offline.
type Config struct {
	// DataDir overrides where the database and log file live.
	// Empty means the per-user config directory.
	DataDir string

	// Report service connection. An empty base URL disables generation.
	ReportBaseURL string
	ReportAPIKey  string
	ReportTimeout time.Duration
}

const defaultReportTimeout = 30 * time.Second

// Load reads an optional .env file, then the process environment.
// A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:       os.Getenv("PROTOTRACK_DATA_DIR"),
		ReportBaseURL: os.Getenv("PROTOTRACK_REPORT_URL"),
		ReportAPIKey:  os.Getenv("PROTOTRACK_REPORT_API_KEY"),
		ReportTimeout: defaultReportTimeout,
	}
	if raw := os.Getenv("PROTOTRACK_REPORT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.ReportTimeout = d
		}
	}
	return cfg
}

// ReportsEnabled reports whether a report service is configured.
func (c Config) ReportsEnabled() bool {
	return c.ReportBaseURL != ""
}
