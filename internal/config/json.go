package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/daylog-app/daylog/internal/flagx"
	"github.com/daylog-app/daylog/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "10s"
// or as integer nanoseconds.
type jsonConfig struct {
	DatabaseDriver string         `json:"database_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	TimeZone       string         `json:"time_zone"`
	PageSize       int            `json:"page_size"`
	AuthSecret     string         `json:"auth_secret"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3Bucket    string `json:"s3_bucket"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is given, cfg is left untouched. Read or
// unmarshal errors panic; config is loaded once at startup and a broken file
// should stop the program.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDriver != "" {
		cfg.DatabaseDriver = jc.DatabaseDriver
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.TimeZone != "" {
		cfg.TimeZone = jc.TimeZone
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.AuthSecret != "" {
		cfg.AuthSecret = jc.AuthSecret
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
}
