// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var files embed.FS

// ErrEmptyDSN is returned when no database url is configured.
var ErrEmptyDSN = errors.New("migration: database url is required")

// Up applies every pending migration. Being at the latest version is not an error.
func Up(dsn string) error {
	return run(dsn, func(m *migrate.Migrate) error { return m.Up() })
}

// Down reverts every applied migration.
func Down(dsn string) error {
	return run(dsn, func(m *migrate.Migrate) error { return m.Down() })
}

func run(dsn string, fn func(*migrate.Migrate) error) error {
	if dsn == "" {
		return ErrEmptyDSN
	}

	src, err := iofs.New(files, "migrations")
	if err != nil {
		return fmt.Errorf("migration: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %w", err)
	}
	return nil
}
