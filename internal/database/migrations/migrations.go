// Package migrations содержит SQL-схему и начальные данные справочников,
// встроенные в бинарник.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
