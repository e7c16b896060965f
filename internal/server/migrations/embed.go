// Package migrations embeds the goose schema migrations for the user store.
// The SQL is kept portable between the SQLite and PostgreSQL dialects.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
