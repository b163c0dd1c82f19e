package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSchemaVersionTooNew is returned when the store schema version
// exceeds the version supported by this code. This prevents data
// corruption from running old code against a newer schema.
var ErrSchemaVersionTooNew = errors.New("store schema version is newer than supported; upgrade skillforge")

// Migration represents a single schema migration.
type Migration struct {
	Version int
	SQL     string
}

// Migrations returns the list of all migrations in order.
// Migrations are forward-only and must be applied in sequence.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, SQL: schemaV1},
		{Version: 2, SQL: schemaV2},
	}
}

// GetSchemaVersion returns the current schema version from the store.
// Returns 0 if no migrations have been applied yet.
func GetSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	// First check if the schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to check for schema_version table: %w", err)
	}

	// Get the highest applied version
	var version int
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM schema_version
	`).Scan(&version)

	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}

	return version, nil
}

// RunMigrations applies all pending migrations to the store.
// It is safe to call unconditionally before any operation: applied
// migrations are skipped, and a store newer than SchemaVersion is refused.
// Each migration is applied within its own transaction for atomicity.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	currentVersion, err := GetSchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	if currentVersion > SchemaVersion {
		return fmt.Errorf("%w: store version %d, supported version %d",
			ErrSchemaVersionTooNew, currentVersion, SchemaVersion)
	}

	for _, m := range Migrations() {
		if m.Version <= currentVersion {
			continue
		}

		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.Version, err)
		}
	}

	return nil
}

// applyMigration applies a single migration within a transaction.
func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Best effort rollback on error

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_version (version, applied_ms)
		VALUES (?, ?)
	`, m.Version, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}

// ValidateSchema checks that all expected tables and indexes exist.
// This can be used for health checks after migrations.
func ValidateSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range AllTables {
		var name string
		err := db.QueryRowContext(ctx, `
			SELECT name FROM sqlite_master
			WHERE type='table' AND name=?
		`, table).Scan(&name)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("table %q does not exist", table)
			}
			return fmt.Errorf("failed to check table %q: %w", table, err)
		}
	}

	for _, index := range AllIndexes {
		var name string
		err := db.QueryRowContext(ctx, `
			SELECT name FROM sqlite_master
			WHERE type='index' AND name=?
		`, index).Scan(&name)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("index %q does not exist", index)
			}
			return fmt.Errorf("failed to check index %q: %w", index, err)
		}
	}

	return nil
}
