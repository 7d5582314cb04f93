// Package config loads runtime settings for the daylog CLI. Values are
// layered: defaults first, then a JSON file (-c/-config), then command-line
// flags. Later sources win.
package config

import "time"

// Config holds runtime settings.
//
// DatabaseDriver selects the record store backend ("sqlite" or "postgres").
// TimeZone is an IANA zone name resolving the caller's calendar days; the
// special value "Local" uses the process zone. PageSize bounds the listing
// queries the container locator issues.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	TimeZone       string
	PageSize       int
	AuthSecret     string
	RequestTimeout time.Duration

	// S3 settings for the attachment uploader. Uploads are disabled when
	// the bucket is empty.
	S3Region    string
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "daylog.db"
	c.TimeZone = "Local"
	c.PageSize = 100
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
