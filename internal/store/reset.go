package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Reset deletes the store file entirely and recreates it from the
// canonical schema with owner-only permissions. Skill artifacts on the
// file system are never touched.
//
// The advisory reset lock is held for the duration so a concurrent hook
// write cannot interleave with the file removal.
func Reset(ctx context.Context, dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("store path is required")
	}

	lock, err := AcquireLock(filepath.Dir(dbPath), DefaultLockOptions())
	if err != nil {
		return fmt.Errorf("failed to acquire reset lock: %w", err)
	}
	defer lock.Release() //nolint:errcheck // Best effort release

	// Remove the store file along with its WAL sidecars.
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	db, err := openAndInit(ctx, dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to recreate store: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close recreated store: %w", err)
	}

	if err := os.Chmod(dbPath, 0o600); err != nil {
		return fmt.Errorf("failed to restrict store permissions: %w", err)
	}

	return nil
}
