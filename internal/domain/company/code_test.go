//go:build unit

package company_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockflow/internal/domain/company"
)

func TestSuggestAbbrev(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"token initials", "Golden Star Jewelry", "GSJ"},
		{"truncated to six", "a b c d e f g h", "ABCDEF"},
		{"digits count as tokens", "24 Karat Gold", "2KG"},
		{"empty name falls back", "", "GS"},
		{"no latin chars falls back", "株式会社", "GS"},
		{"mixed latin in cjk", "宝石ACME堂", "ACME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, company.SuggestAbbrev(tt.in))
		})
	}
}

func TestNormalizeAbbrev(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase with symbols", "ac-me!", "ACME"},
		{"over six chars truncated", "JEWELRY99", "JEWELR"},
		{"all symbols empty", "--//--", ""},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, company.NormalizeAbbrev(tt.in))
		})
	}
}

func TestGenCode(t *testing.T) {
	re := regexp.MustCompile(`^ACME\d{4}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, re, company.GenCode("ACME"))
	}
}
