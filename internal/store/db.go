package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrStoreMissing is returned when an operation requires an existing
// store file and none is present. Running `skillforge init` creates it.
var ErrStoreMissing = errors.New("store not initialized; run 'skillforge init'")

// DB is the shared store handle. It wraps the SQLite connection and is
// passed explicitly to each component so tests can use an ephemeral store.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Options configures store initialization.
type Options struct {
	// Path is the store file path. Required.
	Path string

	// ReadOnly opens the store without running migrations.
	ReadOnly bool

	// MustExist refuses to create a new store file. Used by paths that
	// treat a missing store as "not initialized" rather than an error
	// to fix silently.
	MustExist bool
}

// Open opens the store, applies pragmas, and runs pending migrations.
// The caller must call Close() when done.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.Path == "" {
		return nil, errors.New("store path is required")
	}

	if opts.MustExist {
		if _, err := os.Stat(opts.Path); err != nil {
			return nil, ErrStoreMissing
		}
	}

	dbDir := filepath.Dir(opts.Path)
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	sqlDB, err := openAndInit(ctx, opts.Path, opts.ReadOnly)
	if err != nil {
		return nil, err
	}

	return &DB{db: sqlDB, dbPath: opts.Path}, nil
}

// openAndInit opens the SQLite file, configures it, pings it, and runs
// migrations. It is extracted from Open so Reset can reuse it.
func openAndInit(ctx context.Context, dbPath string, readOnly bool) (*sql.DB, error) {
	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	if readOnly {
		dsn += "&mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite handles concurrency better with a single writer per process;
	// cross-process serialization is left to SQLite's own locking.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if !readOnly {
		if err := RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// Close closes the store connection, merging the WAL into the main file.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	_, _ = d.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	err := d.db.Close()
	d.db = nil
	return err
}

// DB returns the underlying sql.DB for component stores.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Path returns the path to the store file.
func (d *DB) Path() string {
	return d.dbPath
}

// Validate checks that the schema is correctly initialized.
func (d *DB) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db)
}

// Version returns the current schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	return GetSchemaVersion(ctx, d.db)
}
