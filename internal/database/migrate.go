package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations opens path with driver, applies all up migrations and closes
// the migration connection again.
func RunMigrations(driver, path string) error {
	db, err := Open(driver, path)
	if err != nil {
		return err
	}
	defer db.Close()
	return RunMigrationsWithDB(db, driver)
}

// RunMigrationsWithDB applies the embedded migrations through an existing
// *sql.DB. The handle stays open.
func RunMigrationsWithDB(db *sql.DB, driver string) error {
	var (
		inst database.Driver
		name string
		err  error
	)
	switch driver {
	case DriverCgo, "":
		name = "sqlite3"
		inst, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DriverPureGo:
		name = "sqlite"
		inst, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("unknown sqlite driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	// closing the migrate instance would close db, so only the source is released
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, name, inst)
	if err != nil {
		return err
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
