package views

import "strings"

// sanitizeForTerminal strips the codepoints tcell cannot lay out as part of
// a single cell run: skin tone modifiers, the zero width joiner and
// variation selectors.
func sanitizeForTerminal(s string) string {
	if strings.IndexFunc(s, isProblematicRune) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
