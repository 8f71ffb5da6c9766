// Package migrations embeds the SQL schema migrations so a single binary
// can bring any database file up to date.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
