// Package migrations applies the embedded songshelf schema with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Up applies every pending migration. An already current schema is not an error.
func Up(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, func(m *migrate.Migrate) error { return m.Up() })
}

// Down rolls back every applied migration.
func Down(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, func(m *migrate.Migrate) error { return m.Down() })
}

// Version reports the applied schema version and whether it is dirty.
// A database with no migrations applied reports version 0.
func Version(ctx context.Context, db *sql.DB) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := run(ctx, db, func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

func run(ctx context.Context, db *sql.DB, step func(*migrate.Migrate) error) error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	// A dedicated connection keeps m.Close from closing the shared pool.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
