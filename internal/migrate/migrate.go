package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

func instance(db *sql.DB) (*migrate.Migrate, error) {
	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("init iofs: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("init db driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
}

// Up applies all pending migrations from the embedded files.
func Up(db *sql.DB) error {
	m, err := instance(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(db *sql.DB) error {
	m, err := instance(db)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
