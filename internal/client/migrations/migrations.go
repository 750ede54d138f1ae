// Package migrations embeds the SQL schema of the local client database.
package migrations

import "embed"

// Migrations holds goose migration files, rooted at the package directory.
//
//go:embed *.sql
var Migrations embed.FS
