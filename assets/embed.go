// assets/embed.go
//
// Embedded static data shipped with the binary:
//   - pokemon.json: default catalog (used when CATALOG_FILE is unset).
//   - sql/*.sql:    SQLite migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed pokemon.json sql/*.sql
var FS embed.FS

// Catalog returns the embedded default catalog JSON.
func Catalog() ([]byte, error) {
	return FS.ReadFile("pokemon.json")
}

// Migrations returns the migration directory as its own filesystem root.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
