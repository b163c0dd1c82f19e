package skill

import (
	"fmt"
	"os"
	"strings"
)

// Placeholder names substituted into the skill template.
const (
	placeholderName        = "{{SKILL_NAME}}"
	placeholderInstruction = "{{INSTRUCTION}}"
	placeholderSituation   = "{{SITUATION}}"
	placeholderCount       = "{{COUNT}}"
	placeholderFirstSeen   = "{{FIRST_SEEN}}"
	placeholderLastSeen    = "{{LAST_SEEN}}"
)

// allPlaceholders lists every placeholder a template must contain.
var allPlaceholders = []string{
	placeholderName,
	placeholderInstruction,
	placeholderSituation,
	placeholderCount,
	placeholderFirstSeen,
	placeholderLastSeen,
}

// DefaultTemplate is the skill document written by `skillforge init`.
// Promotion reads the template from disk so users can customize it.
const DefaultTemplate = `---
name: {{SKILL_NAME}}
description: Fix for a recurring command failure (seen {{COUNT}} times)
---

# {{SKILL_NAME}}

## Situation

{{SITUATION}}

## Fix

{{INSTRUCTION}}

Observed {{COUNT}} times between {{FIRST_SEEN}} and {{LAST_SEEN}}.
`

// Template is a loaded skill document template.
type Template struct {
	text string
}

// TemplateData holds the values substituted into a template.
type TemplateData struct {
	Name        string
	Instruction string
	Situation   string
	Count       string
	FirstSeen   string
	LastSeen    string
}

// LoadTemplate reads and validates the template file. A missing or
// unreadable file is a promotion precondition failure.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill template %s: %w", path, err)
	}
	return NewTemplate(string(data))
}

// NewTemplate validates template text and wraps it.
func NewTemplate(text string) (*Template, error) {
	for _, ph := range allPlaceholders {
		if !strings.Contains(text, ph) {
			return nil, fmt.Errorf("skill template is missing placeholder %s", ph)
		}
	}
	return &Template{text: text}, nil
}

// Render substitutes all six placeholders in a single left-to-right
// pass. Substituted values are never re-scanned, so placeholder
// delimiters inside untrusted situation or instruction text land in the
// output as literal text, not as substitution structure.
func (t *Template) Render(data TemplateData) string {
	r := strings.NewReplacer(
		placeholderName, data.Name,
		placeholderInstruction, data.Instruction,
		placeholderSituation, data.Situation,
		placeholderCount, data.Count,
		placeholderFirstSeen, data.FirstSeen,
		placeholderLastSeen, data.LastSeen,
	)
	return r.Replace(t.text)
}
