package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate_Default(t *testing.T) {
	t.Parallel()

	_, err := NewTemplate(DefaultTemplate)
	require.NoError(t, err)
}

func TestNewTemplate_MissingPlaceholder(t *testing.T) {
	t.Parallel()

	for _, ph := range allPlaceholders {
		text := ""
		for _, other := range allPlaceholders {
			if other != ph {
				text += other + "\n"
			}
		}
		_, err := NewTemplate(text)
		require.Error(t, err, "template without %s must be rejected", ph)
		assert.Contains(t, err.Error(), ph)
	}
}

func TestRender_SubstitutesAllPlaceholders(t *testing.T) {
	t.Parallel()

	tmpl, err := NewTemplate(DefaultTemplate)
	require.NoError(t, err)

	out := tmpl.Render(TemplateData{
		Name:        "missing-null-check",
		Instruction: "Guard pointer dereferences",
		Situation:   "typecheck: possible nil dereference",
		Count:       "5",
		FirstSeen:   "2026-08-01T10:00:00Z",
		LastSeen:    "2026-08-29T09:00:00Z",
	})

	assert.Contains(t, out, "missing-null-check")
	assert.Contains(t, out, "Guard pointer dereferences")
	assert.Contains(t, out, "typecheck: possible nil dereference")
	assert.Contains(t, out, "seen 5 times")
	assert.Contains(t, out, "2026-08-01T10:00:00Z")
	assert.Contains(t, out, "2026-08-29T09:00:00Z")
	assert.NotContains(t, out, "{{")
}

func TestRender_ValuesAreNotReScanned(t *testing.T) {
	t.Parallel()

	// One occurrence of each placeholder, so every literal in the output
	// is attributable.
	tmpl, err := NewTemplate(
		"{{SKILL_NAME}}|{{INSTRUCTION}}|{{SITUATION}}|{{COUNT}}|{{FIRST_SEEN}}|{{LAST_SEEN}}")
	require.NoError(t, err)

	out := tmpl.Render(TemplateData{
		Name:        "n",
		Instruction: "write {{COUNT}} literally",
		Situation:   "output contained {{SKILL_NAME}}",
		Count:       "3",
		FirstSeen:   "f",
		LastSeen:    "l",
	})

	// Delimiters inside substituted values stay literal text.
	assert.Equal(t, "n|write {{COUNT}} literally|output contained {{SKILL_NAME}}|3|f|l", out)
}

func TestLoadTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "skill-template.md")
	require.NoError(t, os.WriteFile(path, []byte(DefaultTemplate), 0o644))

	tmpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.NotNil(t, tmpl)
}

func TestLoadTemplate_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
}
