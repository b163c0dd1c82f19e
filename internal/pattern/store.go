// Package pattern aggregates accepted (situation, instruction) pairs into
// counted, timestamped pattern records. The pair is the aggregation key:
// identical content upserts, never duplicates.
package pattern

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	// MaxSituationLen is the hard cap on situation text.
	MaxSituationLen = 500

	// MaxInstructionLen is the hard cap on instruction text.
	MaxInstructionLen = 2000
)

// ErrNotFound is returned when a pattern id does not exist.
var ErrNotFound = errors.New("pattern not found")

// Record is one aggregated, actionable fix pattern.
type Record struct {
	ID          int64
	Situation   string
	Instruction string
	Count       int64
	FirstSeenMs int64
	LastSeenMs  int64
	Promoted    bool
	Dismissed   bool
	SkillPath   string
}

// Store manages pattern aggregation and state over the shared store.
type Store struct {
	db *sql.DB
}

// NewStore creates a pattern store over the given handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert aggregates one sighting of a (situation, instruction) pair.
// An existing pattern with identical content gets count+1 and a fresh
// last_seen; otherwise a new pattern starts at count 1. The write is a
// single statement, so concurrent upserts of the same pair serialize at
// the storage layer instead of racing on a read-modify-write.
func (s *Store) Upsert(ctx context.Context, situation, instruction string) (*Record, error) {
	if situation == "" || instruction == "" {
		return nil, errors.New("situation and instruction are required")
	}
	if utf8.RuneCountInString(situation) > MaxSituationLen {
		return nil, fmt.Errorf("situation exceeds %d characters", MaxSituationLen)
	}
	if utf8.RuneCountInString(instruction) > MaxInstructionLen {
		return nil, fmt.Errorf("instruction exceeds %d characters", MaxInstructionLen)
	}

	nowMs := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patterns (situation, instruction, count, first_seen_ms, last_seen_ms)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(situation, instruction) DO UPDATE SET
			count = count + 1,
			last_seen_ms = excluded.last_seen_ms
	`, situation, instruction, nowMs, nowMs)
	if err != nil {
		return nil, fmt.Errorf("upsert pattern: %w", err)
	}

	rec, err := s.getByContent(ctx, situation, instruction)
	if err != nil {
		return nil, fmt.Errorf("upsert pattern: read back: %w", err)
	}
	return rec, nil
}

// Dismiss marks a pattern as explicitly declined. Counts and timestamps
// are untouched, and future upserts keep incrementing; only an explicit
// promotion clears the flag again.
func (s *Store) Dismiss(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE patterns SET dismissed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("dismiss pattern %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("dismiss pattern %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("dismiss pattern %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkPromoted records a successful promotion: promoted is set, any
// prior dismissal is cleared, and the artifact location is stored.
func (s *Store) MarkPromoted(ctx context.Context, id int64, skillPath string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE patterns
		SET promoted = 1, dismissed = 0, skill_path = ?
		WHERE id = ?
	`, skillPath, id)
	if err != nil {
		return fmt.Errorf("mark pattern %d promoted: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark pattern %d promoted: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("mark pattern %d promoted: %w", id, ErrNotFound)
	}
	return nil
}

const recordColumns = `id, situation, instruction, count, first_seen_ms, last_seen_ms, promoted, dismissed, COALESCE(skill_path, '')`

// Get returns the pattern with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM patterns WHERE id = ?`, id)
	return scanRecord(row, fmt.Sprintf("pattern %d", id))
}

// getByContent returns the pattern keyed by its aggregation key.
func (s *Store) getByContent(ctx context.Context, situation, instruction string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM patterns WHERE situation = ? AND instruction = ?`,
		situation, instruction)
	return scanRecord(row, "pattern by content")
}

// Candidates returns promotion candidates: not yet promoted, not
// dismissed, most frequent first.
func (s *Store) Candidates(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM patterns
		WHERE promoted = 0 AND dismissed = 0
		ORDER BY count DESC, last_seen_ms DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.Situation, &rec.Instruction, &rec.Count,
			&rec.FirstSeenMs, &rec.LastSeenMs, &rec.Promoted, &rec.Dismissed, &rec.SkillPath,
		); err != nil {
			return nil, fmt.Errorf("list candidates: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: iterate: %w", err)
	}
	return out, nil
}

// TotalCount returns the number of pattern records.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patterns`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patterns: %w", err)
	}
	return n, nil
}

func scanRecord(row *sql.Row, what string) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Situation, &rec.Instruction, &rec.Count,
		&rec.FirstSeenMs, &rec.LastSeenMs, &rec.Promoted, &rec.Dismissed, &rec.SkillPath,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return &rec, nil
}
