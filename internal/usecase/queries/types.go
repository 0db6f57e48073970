package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ProductView struct {
	ID                int64     `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Detail            string    `json:"detail"`
	SpecWeight        string    `json:"spec_weight"`
	Unit              string    `json:"unit"`
	CostPrice         int64     `json:"cost_price"`
	SalePrice         int64     `json:"sale_price"`
	TaxIncluded       bool      `json:"tax_included"`
	Remark            string    `json:"remark"`
	Status            string    `json:"status"`
	Borrower          string    `json:"borrower"`
	QRPayload         string    `json:"qr_payload"`
	LabelPrintedCount int64     `json:"label_printed_count"`
	LoginDate         string    `json:"login_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LoanOrderView struct {
	ID          int64      `json:"id"`
	LoanNo      string     `json:"loan_no"`
	Company     string     `json:"company"`
	Receiver    string     `json:"receiver"`
	Handler     string     `json:"handler"`
	Discount    float64    `json:"discount"`
	TotalQty    int64      `json:"total_qty"`
	TotalAmount int64      `json:"total_amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type LoanItemView struct {
	ID         int64      `json:"id"`
	ProductID  int64      `json:"product_id"`
	SKU        string     `json:"sku"`
	Price      int64      `json:"price"`
	FinalPrice int64      `json:"final_price"`
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

type LoanOrderDetailView struct {
	LoanOrderView
	Items []LoanItemView `json:"items"`
}

type StockView struct {
	ProductID     int64  `json:"product_id"`
	SKU           string `json:"sku"`
	ProductName   string `json:"product_name"`
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	WarehouseName string `json:"warehouse_name"`
	QtyOnHand     int64  `json:"qty_on_hand"`
}

type WarehouseView struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
