package response

import (
	"time"

	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/queries"
)

type CreateLoanResponse struct {
	OrderID     int64     `json:"order_id"`
	LoanNo      string    `json:"loan_no"`
	TotalQty    int64     `json:"total_qty"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromCreateLoanResult(r *commands.CreateLoanResult) *CreateLoanResponse {
	return &CreateLoanResponse{
		OrderID:     r.OrderID,
		LoanNo:      r.LoanNo,
		TotalQty:    r.TotalQty,
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt,
	}
}

type ReturnItemsResponse struct {
	ReturnedSKUs []string `json:"returned_skus"`
	OrderClosed  bool     `json:"order_closed"`
}

type LoanListResponse struct {
	Loans []queries.LoanOrderView `json:"loans"`
}
