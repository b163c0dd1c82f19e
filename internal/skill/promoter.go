// Package skill materializes promoted patterns as standalone skill
// artifacts: one directory per skill, name-unique among siblings,
// containing a rendered SKILL.md. Artifacts are independent of the
// store once created; a store reset leaves them untouched.
package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/runger/skillforge/internal/pattern"
)

// DocumentName is the rendered instruction document inside each artifact.
const DocumentName = "SKILL.md"

// DefaultMaxNameAttempts bounds the suffix search for a free artifact name.
const DefaultMaxNameAttempts = 100

// ErrNameExhausted is returned when no free artifact name is found
// within the attempt budget. No directory is left behind.
var ErrNameExhausted = errors.New("no free skill name within attempt budget")

// ErrPathEscape is returned when a candidate path would resolve outside
// the skills output directory.
var ErrPathEscape = errors.New("skill path escapes output directory")

// ErrStoreUpdateFailed marks a degraded promotion: the artifact exists
// on disk but the pattern record could not be updated. Artifact
// durability wins over store consistency in this one case.
var ErrStoreUpdateFailed = errors.New("skill created but pattern update failed")

// Promoter turns one pattern into a skill artifact plus a store update.
type Promoter struct {
	patterns    *pattern.Store
	tmpl        *Template
	skillsDir   string
	maxAttempts int
	logger      *slog.Logger
}

// NewPromoter creates a promoter writing artifacts under skillsDir.
func NewPromoter(patterns *pattern.Store, tmpl *Template, skillsDir string, maxAttempts int, logger *slog.Logger) *Promoter {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxNameAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Promoter{
		patterns:    patterns,
		tmpl:        tmpl,
		skillsDir:   skillsDir,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Request identifies the pattern to promote. Situation, instruction and
// count are passed through from the caller (the CLI receives them as
// positional arguments); first/last seen are looked up from the store.
type Request struct {
	PatternID   int64
	Situation   string
	Instruction string
	Count       int64
}

// Result reports the outcome of a promotion.
type Result struct {
	// SkillPath is the created artifact directory.
	SkillPath string

	// StoreWarning is non-nil when the artifact was created but the
	// pattern record could not be updated; the caller may retry the
	// store update independently.
	StoreWarning error
}

// Promote allocates a unique artifact directory, renders the template
// into it, and marks the pattern promoted. Promotion is deliberately not
// idempotent: a second call on the same pattern creates a second,
// suffixed artifact. Callers must check the promoted flag first.
func (p *Promoter) Promote(ctx context.Context, req Request) (*Result, error) {
	rec, err := p.patterns.Get(ctx, req.PatternID)
	if err != nil {
		return nil, err
	}

	dir, err := p.allocateDir(req.Situation)
	if err != nil {
		return nil, err
	}

	doc := p.tmpl.Render(TemplateData{
		Name:        filepath.Base(dir),
		Instruction: req.Instruction,
		Situation:   req.Situation,
		Count:       strconv.FormatInt(req.Count, 10),
		FirstSeen:   formatSeen(rec.FirstSeenMs),
		LastSeen:    formatSeen(rec.LastSeenMs),
	})

	if err := os.WriteFile(filepath.Join(dir, DocumentName), []byte(doc), 0o644); err != nil {
		// Roll back the just-created directory; the pattern record
		// has not been touched yet.
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write skill document: %w", err)
	}

	result := &Result{SkillPath: dir}

	if err := p.patterns.MarkPromoted(ctx, req.PatternID, dir); err != nil {
		p.logger.Warn("skill created but pattern update failed",
			"pattern_id", req.PatternID,
			"skill_path", dir,
			"error", err,
		)
		result.StoreWarning = fmt.Errorf("%w: %v", ErrStoreUpdateFailed, err)
	}

	return result, nil
}

// allocateDir finds a free artifact name and claims it with an atomic
// exclusive directory creation. The exclusive create is the sole
// collision guard between concurrent promotions racing on the same
// derived base name; existence is never checked separately.
func (p *Promoter) allocateDir(situation string) (string, error) {
	if err := os.MkdirAll(p.skillsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create skills directory: %w", err)
	}

	base := Slugify(situation)

	for i := 0; i < p.maxAttempts; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d", base, i)
		}

		dir := filepath.Join(p.skillsDir, name)
		if err := ensureWithin(p.skillsDir, dir); err != nil {
			return "", err
		}

		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create skill directory: %w", err)
		}
	}

	return "", fmt.Errorf("%w (%d attempts for base %q)", ErrNameExhausted, p.maxAttempts, base)
}

// ensureWithin verifies that path resolves inside root. The slug
// alphabet already excludes separators, so this only trips on a broken
// caller, but path containment stays an explicit invariant rather than
// an emergent property of the slugifier.
func ensureWithin(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve skills directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve skill path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return nil
}

// formatSeen renders a store timestamp for the skill document.
func formatSeen(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
