package config

import (
	"flag"
	"os"

	"github.com/daylog-app/daylog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   database DSN
//	-driver string  database driver (sqlite or postgres)
//	-z string   IANA time zone for day bucketing
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-driver", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver (sqlite or postgres)")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "IANA time zone for day bucketing")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
