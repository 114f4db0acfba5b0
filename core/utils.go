package core

import (
	"strconv"
	"strings"
)

// CleanString strips surrounding whitespace; pass lower to also lowercase
// (emails, course codes).
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		s = strings.ToLower(s)
	}
	return s
}

// FormatINR renders a rupee amount with Indian digit grouping
// (1234567 -> "12,34,567").
func FormatINR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	// last group of three, then groups of two
	for i := 0; i < len(digits); i++ {
		rem := len(digits) - i
		if i > 0 && (rem == 3 || (rem > 3 && rem%2 == 1)) {
			sb.WriteByte(',')
		}
		sb.WriteByte(digits[i])
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
