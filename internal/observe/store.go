// Package observe provides the append-only observation log. Every
// monitored command failure lands here as one row; the frequency signal
// lives in repetition, not in a counter, so rows are never deduplicated,
// mutated, or deleted outside a full store reset.
package observe

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/runger/skillforge/internal/classify"
)

const (
	// MaxSituationLen is the hard cap on situation text.
	MaxSituationLen = 500

	// MaxExpectationLen is the hard cap on expectation text.
	MaxExpectationLen = 1000

	// PendingExpectation is the placeholder recorded when no fix is
	// known yet; the review flow fills in the real expectation later.
	PendingExpectation = "Correct behavior not yet determined"
)

// Observation is one raw failure sighting.
type Observation struct {
	ID          int64
	CreatedMs   int64
	Category    classify.Category
	Situation   string
	Expectation string
	FilePath    string
	Notes       string
	SessionID   string
}

// Store appends observations to the shared persistent store.
type Store struct {
	db *sql.DB
}

// NewStore creates an observation store over the given handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record appends one observation. Over-long text is truncated to the
// column caps rather than rejected: the hook path must never fail on
// adversarial command output. The store fills in id and timestamp.
func (s *Store) Record(ctx context.Context, obs Observation) (int64, error) {
	if obs.Expectation == "" {
		obs.Expectation = PendingExpectation
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO observations (category, situation, expectation, file_path, notes, session_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(obs.Category),
		truncate(obs.Situation, MaxSituationLen),
		truncate(obs.Expectation, MaxExpectationLen),
		nullable(obs.FilePath),
		nullable(obs.Notes),
		nullable(obs.SessionID),
	)
	if err != nil {
		return 0, fmt.Errorf("record observation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record observation: last insert id: %w", err)
	}
	return id, nil
}

// TotalCount returns the number of recorded observations.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

// SituationCount is a count aggregate used by the review flow.
type SituationCount struct {
	Situation string
	Category  classify.Category
	Count     int64
}

// CountBySituation returns the most frequently sighted situations in
// descending order, capped at limit.
func (s *Store) CountBySituation(ctx context.Context, limit int) ([]SituationCount, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT situation, category, COUNT(*) AS n
		FROM observations
		GROUP BY situation, category
		ORDER BY n DESC, situation ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("count by situation: %w", err)
	}
	defer rows.Close()

	var out []SituationCount
	for rows.Next() {
		var sc SituationCount
		var category string
		if err := rows.Scan(&sc.Situation, &category, &sc.Count); err != nil {
			return nil, fmt.Errorf("count by situation: scan: %w", err)
		}
		sc.Category = classify.Category(category)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by situation: iterate: %w", err)
	}
	return out, nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// truncate caps s at max characters without splitting a rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
