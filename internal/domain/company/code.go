// Package company derives the company code used as the SKU prefix.
package company

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// DefaultAbbrev is used when nothing usable can be extracted from the name.
const DefaultAbbrev = "GS"

var (
	tokenRegex    = regexp.MustCompile(`[A-Za-z0-9]+`)
	latinRegex    = regexp.MustCompile(`[A-Za-z]`)
	nonAlnumRegex = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// SuggestAbbrev extracts an abbreviation (up to 6 chars, A-Z0-9) from a
// company name by taking the first character of each alphanumeric token.
// Falls back to loose latin letters, then to DefaultAbbrev.
func SuggestAbbrev(companyName string) string {
	if companyName == "" {
		return DefaultAbbrev
	}
	tokens := tokenRegex.FindAllString(companyName, -1)
	if len(tokens) > 0 {
		var b strings.Builder
		for _, t := range tokens {
			b.WriteByte(t[0])
		}
		letters := strings.ToUpper(b.String())
		if len(letters) > 6 {
			letters = letters[:6]
		}
		if letters != "" {
			return letters
		}
	}
	letters := strings.ToUpper(strings.Join(latinRegex.FindAllString(companyName, -1), ""))
	if len(letters) > 6 {
		letters = letters[:6]
	}
	if letters == "" {
		return DefaultAbbrev
	}
	return letters
}

// NormalizeAbbrev cleans a manually entered abbreviation: keep A-Z0-9 only,
// uppercase, at most 6 chars. Empty result means the caller should fall back
// to SuggestAbbrev.
func NormalizeAbbrev(abbrev string) string {
	s := strings.ToUpper(nonAlnumRegex.ReplaceAllString(abbrev, ""))
	if len(s) > 6 {
		s = s[:6]
	}
	return s
}

// GenCode appends a zero-padded 4-digit random suffix to the abbreviation.
func GenCode(abbrev string) string {
	return fmt.Sprintf("%s%04d", abbrev, rand.Intn(10000))
}
