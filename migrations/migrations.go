// Package migrations carries the goose SQL migrations compiled into
// the binary, so the Postgres store can bring its schema up to date
// without shipping loose files. New migrations go in as
// YYYYMMDDHHMMSS_description.sql and run in timestamp order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
