// Package migrations embeds the SQL schema of the PostgreSQL and MySQL storage drivers.
package migrations

import "embed"

// FS holds the migration files under "postgresql/" and "mysql/".
//
//go:embed postgresql/*.sql mysql/*.sql
var FS embed.FS

// Dir returns the directory of FS holding the migrations for driver.
func Dir(driver string) string {
	if driver == "mysql" {
		return "mysql"
	}
	return "postgresql"
}
