// Package ident derives sequence scopes and formats business identifiers.
// Allocation itself lives in the sequence repository; everything here is
// pure so identifier layouts can be pinned down in tests.
package ident

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmptyCompanyCode = errors.New("company code is empty")

const loanScopePrefix = "LOAN-"

// SKUScope returns the year-month partition ("2405") for SKU numbering.
func SKUScope(now time.Time) string {
	return now.Format("0601")
}

// LoanScope returns the per-day partition ("LOAN-240531") for loan numbering.
func LoanScope(now time.Time) string {
	return loanScopePrefix + now.Format("060102")
}

// LoanDay strips the scope prefix back off for formatting.
func LoanDay(scope string) string {
	if len(scope) > len(loanScopePrefix) {
		return scope[len(loanScopePrefix):]
	}
	return scope
}

// FormatSKU builds "{companyCode}-{YYMM}-{NNNN}". The numeric field is
// zero-padded to four digits and simply widens beyond 9999.
func FormatSKU(companyCode, scope string, n int64) (string, error) {
	if companyCode == "" {
		return "", ErrEmptyCompanyCode
	}
	return fmt.Sprintf("%s-%s-%04d", companyCode, scope, n), nil
}

// FormatLoanNo builds "L{YYMMDD}{NNN}", zero-padded to three digits.
func FormatLoanNo(day string, n int64) string {
	return fmt.Sprintf("L%s%03d", day, n)
}
