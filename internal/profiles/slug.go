package profiles

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// BuildSlug derives a URL slug from a display name plus a short unique
// suffix, e.g. "jane-doe-3f9a1c".
func BuildSlug(displayName string, id uuid.UUID) string {
	base := slugify(displayName)
	suffix := strings.ReplaceAll(id.String(), "-", "")[:6]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
