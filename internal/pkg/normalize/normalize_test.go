//go:build unit

package normalize_test

import (
	"testing"

	"stockflow/internal/pkg/normalize"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain integer", in: "12000", want: "12000"},
		{name: "thousands separator", in: "12,000", want: "12000"},
		{name: "full-width digits", in: "１２０００", want: "12000"},
		{name: "full-width separator", in: "１２，０００", want: "12000"},
		{name: "currency noise stripped", in: "¥ 9,800 JPY", want: "9800"},
		{name: "empty", in: "", want: ""},
		{name: "no digits", in: "abc", want: ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, normalize.Amount(c.in))
		})
	}
}

func TestWeight(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "integer grams", in: "12", want: "12"},
		{name: "decimal grams", in: "12.5", want: "12.5"},
		{name: "unit suffix", in: "12.5g", want: "12.5"},
		{name: "upper unit suffix", in: "12.5 G", want: "12.5"},
		{name: "full-width", in: "１２．５", want: "12.5"},
		{name: "second dot dropped", in: "1.2.5", want: "1.25"},
		{name: "leading dot dropped", in: ".5", want: "5"},
		{name: "trailing dot trimmed", in: "12.", want: "12"},
		{name: "empty", in: "", want: ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, normalize.Weight(c.in))
		})
	}
}
