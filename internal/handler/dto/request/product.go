package request

import (
	"strconv"
	"strings"

	"stockflow/internal/pkg/errs"
	"stockflow/internal/pkg/normalize"
)

var ErrInvalidAmount = errs.New("amount is not numeric")

// Prices arrive as free text (spreadsheet pastes, full-width digits), so
// they are strings here and normalized before use.
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Detail      string `json:"detail"`
	SpecWeight  string `json:"spec_weight"`
	CostPrice   string `json:"cost_price"`
	SalePrice   string `json:"sale_price" binding:"required"`
	TaxIncluded bool   `json:"tax_included"`
	Remark      string `json:"remark"`
	LoginDate   string `json:"login_date"`
}

type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Detail      string `json:"detail"`
	SpecWeight  string `json:"spec_weight"`
	CostPrice   string `json:"cost_price"`
	SalePrice   string `json:"sale_price" binding:"required"`
	TaxIncluded bool   `json:"tax_included"`
	Remark      string `json:"remark"`
	LoginDate   string `json:"login_date"`
}

// ParseAmount normalizes and parses a free-text amount. Empty input is 0.
func ParseAmount(s string) (int64, error) {
	cleaned := normalize.Amount(s)
	if cleaned == "" {
		if strings.TrimSpace(s) == "" {
			return 0, nil
		}
		return 0, ErrInvalidAmount
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return n, nil
}
