// Package strcase converts Go identifiers into the snake_case keys used in
// API error payloads.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to snake_case. Initialisms stay together, so
// "OTPCode" becomes "otp_code" and "userID" becomes "user_id".
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
