package skill

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/skillforge/internal/pattern"
	"github.com/runger/skillforge/internal/store"
)

type promoterFixture struct {
	patterns  *pattern.Store
	skillsDir string
	tmpl      *Template
}

func newPromoterFixture(t *testing.T) *promoterFixture {
	t.Helper()

	dir := t.TempDir()
	db, err := store.Open(context.Background(), store.Options{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tmpl, err := NewTemplate(DefaultTemplate)
	require.NoError(t, err)

	return &promoterFixture{
		patterns:  pattern.NewStore(db.DB()),
		skillsDir: filepath.Join(dir, "skills"),
		tmpl:      tmpl,
	}
}

func (f *promoterFixture) promoter(maxAttempts int) *Promoter {
	return NewPromoter(f.patterns, f.tmpl, f.skillsDir, maxAttempts, nil)
}

func (f *promoterFixture) seedPattern(t *testing.T, situation, instruction string) *pattern.Record {
	t.Helper()
	rec, err := f.patterns.Upsert(context.Background(), situation, instruction)
	require.NoError(t, err)
	return rec
}

func TestPromote_CreatesArtifact(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "Missing null check", "Guard pointer dereferences before use")

	result, err := f.promoter(0).Promote(ctx, Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	})
	require.NoError(t, err)
	require.Nil(t, result.StoreWarning)

	assert.Equal(t, filepath.Join(f.skillsDir, "missing-null-check"), result.SkillPath)

	doc, err := os.ReadFile(filepath.Join(result.SkillPath, DocumentName))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "missing-null-check")
	assert.Contains(t, string(doc), "Guard pointer dereferences before use")
	assert.Contains(t, string(doc), "Missing null check")

	// The pattern record carries the promotion.
	got, err := f.patterns.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Promoted)
	assert.Equal(t, result.SkillPath, got.SkillPath)
}

func TestPromote_CollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "Missing null check", "Guard pointer dereferences")

	// Someone already owns the base name.
	require.NoError(t, os.MkdirAll(filepath.Join(f.skillsDir, "missing-null-check"), 0o755))

	result, err := f.promoter(0).Promote(ctx, Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.skillsDir, "missing-null-check-1"), result.SkillPath)
}

func TestPromote_NotIdempotent(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "Missing null check", "Guard pointer dereferences")
	req := Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	}

	p := f.promoter(0)
	first, err := p.Promote(ctx, req)
	require.NoError(t, err)
	second, err := p.Promote(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.SkillPath, second.SkillPath)
	for _, dir := range []string{first.SkillPath, second.SkillPath} {
		_, err := os.Stat(filepath.Join(dir, DocumentName))
		assert.NoError(t, err)
	}
}

func TestPromote_ConcurrentPromotionsGetDistinctDirs(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "Missing null check", "Guard pointer dereferences")
	req := Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	}

	const workers = 8
	p := f.promoter(0)
	paths := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := p.Promote(ctx, req)
			if err != nil {
				errs[i] = err
				return
			}
			paths[i] = result.SkillPath
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[paths[i]], "duplicate skill path %s", paths[i])
		seen[paths[i]] = true
	}
}

func TestPromote_NameExhaustion(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "Missing null check", "Guard pointer dereferences")

	// With a budget of 2, the base and base-1 occupy every candidate.
	require.NoError(t, os.MkdirAll(filepath.Join(f.skillsDir, "missing-null-check"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.skillsDir, "missing-null-check-1"), 0o755))

	_, err := f.promoter(2).Promote(ctx, Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	})
	require.ErrorIs(t, err, ErrNameExhausted)

	// Exhaustion leaves no partial artifacts behind.
	entries, err := os.ReadDir(f.skillsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// The pattern stays unpromoted.
	got, err := f.patterns.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Promoted)
}

func TestPromote_UnknownPattern(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)

	_, err := f.promoter(0).Promote(context.Background(), Request{
		PatternID:   9999,
		Situation:   "it broke",
		Instruction: "fix it",
		Count:       1,
	})
	require.ErrorIs(t, err, pattern.ErrNotFound)
}

func TestPromote_AdversarialSituationStaysContained(t *testing.T) {
	t.Parallel()

	f := newPromoterFixture(t)
	ctx := context.Background()
	rec := f.seedPattern(t, "../../../etc/passwd", "fix it")

	result, err := f.promoter(0).Promote(ctx, Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	})
	require.NoError(t, err)

	rel, err := filepath.Rel(f.skillsDir, result.SkillPath)
	require.NoError(t, err)
	assert.False(t, filepath.IsAbs(rel))
	assert.NotContains(t, rel, "..")
}

func TestEnsureWithin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	assert.NoError(t, ensureWithin(root, filepath.Join(root, "ok")))
	assert.NoError(t, ensureWithin(root, filepath.Join(root, "nested", "ok")))

	err := ensureWithin(root, filepath.Join(root, "..", "escape"))
	assert.True(t, errors.Is(err, ErrPathEscape))
}
