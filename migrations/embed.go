// Package migrations содержит SQL-миграции сервера, встроенные в бинарник.
package migrations

import "embed"

// FS — миграции golang-migrate: postgres/<version>_<name>.{up,down}.sql.
//
//go:embed postgres/*.sql
var FS embed.FS
