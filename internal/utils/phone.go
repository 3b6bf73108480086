package utils

import "strings"

// NormalizePhone strips everything but digits. Telegram wants the bare number
// on the wire; the original user-supplied form stays the canonical identity.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
