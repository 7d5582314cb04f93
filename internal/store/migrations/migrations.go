// Package migrations embeds the goose migration scripts for the record
// store backends. Each backend runs the scripts under its own subdirectory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
