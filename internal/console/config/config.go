package config

import "time"

// Config holds runtime settings for the logdeck console.
//
// Fields:
//   - BackendURL: base URL of the log-management REST backend.
//   - StoragePath: path of the local sqlite database holding the
//     credential store and cached search history.
//   - HTTPTimeout: per-request timeout applied to every backend call.
//
// Units: HTTPTimeout is a time.Duration (e.g. 15*time.Second).
type Config struct {
	BackendURL  string
	StoragePath string
	HTTPTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8000"
	c.StoragePath = "logdeck.db"
	c.HTTPTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
