package request

type CreateLoanRequest struct {
	SKUs     []string `json:"skus" binding:"required"`
	Company  string   `json:"company"`
	Receiver string   `json:"receiver"`
	Handler  string   `json:"handler"`
	Discount float64  `json:"discount" binding:"required"`
}

type ReturnItemsRequest struct {
	SKUs []string `json:"skus" binding:"required"`
}
