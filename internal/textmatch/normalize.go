package textmatch

import (
	"strings"
	"unicode"
)

// strippedRunes is the fixed set of punctuation and bracket characters
// removed before matching, covering both full-width and half-width forms.
const strippedRunes = "！!？?。、．，,・･「」『』【】［］[]()（）"

// Normalize lower-cases text and strips whitespace plus the fixed
// punctuation set. It is used for matching only; answer text returned to
// users is never normalized. Normalize only removes characters, so it is
// idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) || strings.ContainsRune(strippedRunes, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
