// Package dialect names the SQL dialects whose tables can be inspected and
// turned into description entities.
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Inspection itself lives in dialect/relation.
package dialect

import (
	"fmt"
	"slices"
)

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Names returns the supported dialect names.
func Names() []string {
	return []string{Postgres, MySQL, SQLite}
}

// Check returns an error if name is not a supported dialect.
func Check(name string) error {
	if !slices.Contains(Names(), name) {
		return fmt.Errorf("dialect: unsupported dialect %q (want one of %v)", name, Names())
	}
	return nil
}
