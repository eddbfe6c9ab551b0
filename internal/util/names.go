package util

import (
	"strings"
	"unicode"
)

// SnakeCase converts a display name such as "Billing Agent" or "billingAgent"
// into an identifier usable as a tool name ("billing_agent"). Characters
// outside [a-z0-9_] are folded into single underscores.
func SnakeCase(s string) string {
	var b strings.Builder

	prevUnderscore := true // suppress leading underscore
	runes := []rune(s)

	for i, r := range runes {
		switch {
		case r < unicode.MaxASCII && unicode.IsUpper(r):
			if !prevUnderscore && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			prevUnderscore = false
		case r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)):
			b.WriteRune(r)

			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
