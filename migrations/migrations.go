// Package migrations embeds the Postgres schema migrations so that the
// binaries do not depend on the working directory.
package migrations

import "embed"

// FS holds the numbered up/down SQL files read by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
