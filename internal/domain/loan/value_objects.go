package loan

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidDiscount = errors.New("discount must be greater than 0 and at most 1")
	ErrNoItems         = errors.New("loan items are empty")
	ErrNoCounterpart   = errors.New("at least one of company, receiver or handler is required")
)

// Discount is a multiplicative factor in (0, 1]. 1.0 means list price.
type Discount float64

func NewDiscount(d float64) (Discount, error) {
	if d <= 0 || d > 1 {
		return 0, ErrInvalidDiscount
	}
	return Discount(d), nil
}

// Apply computes the discounted price in whole currency units,
// rounding half away from zero.
func (d Discount) Apply(price int64) int64 {
	return int64(math.Round(float64(price) * float64(d)))
}

func (d Discount) Float64() float64 {
	return float64(d)
}

// Counterpart carries the free-text parties on a loan order.
type Counterpart struct {
	Company  string
	Receiver string
	Handler  string
}

func NewCounterpart(company, receiver, handler string) (Counterpart, error) {
	cp := Counterpart{
		Company:  strings.TrimSpace(company),
		Receiver: strings.TrimSpace(receiver),
		Handler:  strings.TrimSpace(handler),
	}
	if cp.Company == "" && cp.Receiver == "" && cp.Handler == "" {
		return Counterpart{}, ErrNoCounterpart
	}
	return cp, nil
}

// BorrowerText renders the line stamped onto each loaned product: the
// non-blank parties joined with a separator, plus the discount.
func (cp Counterpart) BorrowerText(d Discount) string {
	parts := make([]string, 0, 4)
	if cp.Company != "" {
		parts = append(parts, "company: "+cp.Company)
	}
	if cp.Receiver != "" {
		parts = append(parts, "receiver: "+cp.Receiver)
	}
	if cp.Handler != "" {
		parts = append(parts, "handler: "+cp.Handler)
	}
	parts = append(parts, fmt.Sprintf("discount: %.2f", float64(d)))
	return strings.Join(parts, "; ")
}

// NormalizeSKUs trims, uppercases and de-duplicates while preserving
// first-seen order. Blank entries are dropped.
func NormalizeSKUs(skus []string) []string {
	seen := make(map[string]struct{}, len(skus))
	out := make([]string, 0, len(skus))
	for _, s := range skus {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
