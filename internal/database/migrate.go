package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/securestore/migrations"
)

// Migrate applies all pending embedded migrations for driver on db.
// It returns nil when the schema is already up to date.
//
// The migrate instance is not closed: it wraps db, which stays owned by the caller.
func Migrate(db *sql.DB, driver string) error {
	source, err := iofs.New(migrations.FS, migrations.Dir(driver))
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var instance migratedb.Driver
	switch driver {
	case "postgres":
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	case "mysql":
		instance, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		return fmt.Errorf("unsupported migration driver: %s", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
