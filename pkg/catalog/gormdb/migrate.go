package gormdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/marmos91/vfsmount/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationSource returns the embedded PostgreSQL schema migrations.
func migrationSource() (source.Driver, error) {
	return iofs.New(migrationsFS, "migrations")
}

// runPostgresMigrations brings the catalog schema up to date. golang-migrate
// holds an advisory lock while applying, so nodes sharing a catalog can start
// concurrently.
func runPostgresMigrations(ctx context.Context, pg *PostgresConfig) error {
	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{
		MigrationsTable: "catalog_schema_migrations",
		DatabaseName:    pg.Database,
	})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	src, err := migrationSource()
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", verr)
	}
	if dirty {
		return fmt.Errorf("catalog schema is dirty at version %d", version)
	}

	logger.Debug("Catalog schema up to date",
		logger.KeyCatalog, string(DatabaseTypePostgres),
		"schema_version", version,
		"applied", !errors.Is(err, migrate.ErrNoChange))
	return nil
}
