// Package normalize cleans free-form catalog input before validation.
// Operators paste prices and weights from spreadsheets and IMEs, so
// full-width digits, thousands separators and unit suffixes all occur.
package normalize

import "strings"

var fullWidthDigits = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
	"，", ",", "．", ".", "、", ",",
)

// Amount reduces s to a bare integer string (whole currency units).
// Returns "" when nothing numeric survives.
func Amount(s string) string {
	if s == "" {
		return ""
	}
	s = fullWidthDigits.Replace(s)
	s = strings.ReplaceAll(s, ",", "")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Weight reduces s to digits with at most one decimal point, dropping a
// trailing g/G unit. "12.5g" -> "12.5". Returns "" for non-numeric input.
func Weight(s string) string {
	if s == "" {
		return ""
	}
	s = fullWidthDigits.Replace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "gG"))

	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot && b.Len() > 0:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), ".")
}
