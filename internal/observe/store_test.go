package observe

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runger/skillforge/internal/classify"
	"github.com/runger/skillforge/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(context.Background(), store.Options{Path: dbPath})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.DB())
}

func TestRecord_AppendsRow(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Observation{
		Category:    classify.CategoryStyle,
		Situation:   "lint: 'x' is not defined",
		Expectation: "No lint errors",
		FilePath:    "src/app.js",
		SessionID:   "sess-1",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("Record() id = %d, want > 0", id)
	}

	n, err := s.TotalCount(ctx)
	if err != nil {
		t.Fatalf("TotalCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("TotalCount() = %d, want 1", n)
	}
}

func TestRecord_NeverDeduplicates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	obs := Observation{
		Category:  classify.CategoryOther,
		Situation: "build: undefined symbol",
	}
	first, err := s.Record(ctx, obs)
	if err != nil {
		t.Fatalf("first Record() error = %v", err)
	}
	second, err := s.Record(ctx, obs)
	if err != nil {
		t.Fatalf("second Record() error = %v", err)
	}
	if second == first {
		t.Errorf("identical observations got the same id %d", first)
	}

	n, err := s.TotalCount(ctx)
	if err != nil {
		t.Fatalf("TotalCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("TotalCount() = %d, want 2", n)
	}
}

func TestRecord_DefaultsPendingExpectation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Observation{
		Category:  classify.CategoryMissing,
		Situation: "typecheck: missing return",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var expectation string
	err = s.db.QueryRowContext(ctx,
		`SELECT expectation FROM observations WHERE id = ?`, id).Scan(&expectation)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if expectation != PendingExpectation {
		t.Errorf("expectation = %q, want %q", expectation, PendingExpectation)
	}
}

func TestRecord_TruncatesToColumnCaps(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Observation{
		Category:    classify.CategoryOther,
		Situation:   strings.Repeat("s", MaxSituationLen+50),
		Expectation: strings.Repeat("e", MaxExpectationLen+50),
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var situation, expectation string
	err = s.db.QueryRowContext(ctx,
		`SELECT situation, expectation FROM observations WHERE id = ?`, id).
		Scan(&situation, &expectation)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(situation) != MaxSituationLen {
		t.Errorf("situation length = %d, want %d", len(situation), MaxSituationLen)
	}
	if len(expectation) != MaxExpectationLen {
		t.Errorf("expectation length = %d, want %d", len(expectation), MaxExpectationLen)
	}
}

func TestRecord_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	// Multi-byte runes: the cap counts characters, not bytes, and the
	// stored value must remain valid UTF-8.
	id, err := s.Record(ctx, Observation{
		Category:  classify.CategoryOther,
		Situation: strings.Repeat("é", MaxSituationLen+10),
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var situation string
	err = s.db.QueryRowContext(ctx,
		`SELECT situation FROM observations WHERE id = ?`, id).Scan(&situation)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := len([]rune(situation)); got != MaxSituationLen {
		t.Errorf("situation rune count = %d, want %d", got, MaxSituationLen)
	}
}

func TestRecord_StoreFillsTimestamp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Observation{
		Category:  classify.CategoryOther,
		Situation: "x",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var createdMs int64
	err = s.db.QueryRowContext(ctx,
		`SELECT created_ms FROM observations WHERE id = ?`, id).Scan(&createdMs)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if createdMs <= 0 {
		t.Errorf("created_ms = %d, want > 0", createdMs)
	}
}

func TestRecord_EmptyOptionalFieldsStoredAsNull(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Observation{
		Category:  classify.CategoryOther,
		Situation: "x",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var n int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM observations
		WHERE id = ? AND file_path IS NULL AND notes IS NULL AND session_id IS NULL
	`, id).Scan(&n)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if n != 1 {
		t.Error("empty optional fields were not stored as NULL")
	}
}

func TestCountBySituation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Record(ctx, Observation{
			Category:  classify.CategoryStyle,
			Situation: "lint: unused variable",
		}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if _, err := s.Record(ctx, Observation{
		Category:  classify.CategoryOther,
		Situation: "git: merge conflict",
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	counts, err := s.CountBySituation(ctx, 10)
	if err != nil {
		t.Fatalf("CountBySituation() error = %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("CountBySituation() returned %d groups, want 2", len(counts))
	}
	if counts[0].Situation != "lint: unused variable" || counts[0].Count != 3 {
		t.Errorf("top group = %+v, want lint situation with count 3", counts[0])
	}
	if counts[0].Category != classify.CategoryStyle {
		t.Errorf("top group category = %q, want %q", counts[0].Category, classify.CategoryStyle)
	}
	if counts[1].Count != 1 {
		t.Errorf("second group count = %d, want 1", counts[1].Count)
	}
}
