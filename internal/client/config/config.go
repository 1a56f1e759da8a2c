package config

import "time"

// Recency backing policies. Exactly one is active in a running client.
const (
	BackingLocal  = "local"
	BackingSynced = "synced"
)

// Config holds runtime settings for the recetas CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the recipe service, e.g. "http://localhost:3001".
//   - DatabaseDSN: path/DSN of the client-local sqlite database.
//   - RequestTimeout: per-request HTTP timeout.
//   - RecencyBacking: BackingLocal or BackingSynced.
type Config struct {
	ServerBaseURL  string
	DatabaseDSN    string
	RequestTimeout time.Duration
	RecencyBacking string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3001"
	c.DatabaseDSN = "recetas.db"
	c.RequestTimeout = 10 * time.Second
	c.RecencyBacking = BackingLocal
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
