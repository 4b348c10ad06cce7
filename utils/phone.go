package utils

import "regexp"

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhone strips every non-digit character: "+90 (532) 111-22-33" -> "905321112233".
func NormalizePhone(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// SamePhone compares two numbers by their digits only. Empty numbers never match.
func SamePhone(a, b string) bool {
	da, db := NormalizePhone(a), NormalizePhone(b)
	return da != "" && da == db
}
