package skill

import (
	"strings"
)

// maxSlugLen bounds the derived artifact base name.
const maxSlugLen = 48

// fallbackSlug is used when the situation yields no usable characters.
const fallbackSlug = "skill"

// Slugify derives a deterministic artifact base name from situation
// text: lowercased, runs of anything outside [a-z0-9] collapsed to a
// single '-', trimmed, and bounded in length. The output alphabet is
// what makes adversarial situation text safe to join into a path.
func Slugify(situation string) string {
	var b strings.Builder
	lastDash := true // Suppress a leading dash

	for _, r := range strings.ToLower(situation) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}

		if b.Len() >= maxSlugLen {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
