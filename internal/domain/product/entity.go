package product

import (
	"errors"
	"time"
)

var (
	ErrEmptySKU         = errors.New("sku is empty")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNotInStock       = errors.New("product is not in stock")
	ErrNotLoaned        = errors.New("product is not loaned")
	ErrBorrowerRequired = errors.New("borrower is required for a loaned product")
)

type Product struct {
	id          int64
	sku         string
	name        string
	category    string
	detail      string
	specWeight  string
	unit        string
	costPrice   int64
	salePrice   int64
	taxIncluded bool
	remark      string
	status      Status
	borrower    string
	qrPayload   string
	loginDate   string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProduct builds a catalog entry in the in-stock state. The SKU must
// already be allocated; the catalog never accepts caller-supplied SKUs.
func NewProduct(sku, name string, salePrice, costPrice int64) (*Product, error) {
	if sku == "" {
		return nil, ErrEmptySKU
	}
	if salePrice < 0 || costPrice < 0 {
		return nil, ErrNegativePrice
	}
	return &Product{
		sku:       sku,
		name:      name,
		unit:      "pcs",
		costPrice: costPrice,
		salePrice: salePrice,
		status:    StatusInStock,
	}, nil
}

func ReconstructProduct(
	id int64,
	sku, name, category, detail, specWeight, unit string,
	costPrice, salePrice int64,
	taxIncluded bool,
	remark string,
	status Status,
	borrower, qrPayload, loginDate string,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:          id,
		sku:         sku,
		name:        name,
		category:    category,
		detail:      detail,
		specWeight:  specWeight,
		unit:        unit,
		costPrice:   costPrice,
		salePrice:   salePrice,
		taxIncluded: taxIncluded,
		remark:      remark,
		status:      status,
		borrower:    borrower,
		qrPayload:   qrPayload,
		loginDate:   loginDate,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Lend transitions in_stock -> loaned. Any other origin state is a conflict.
func (p *Product) Lend(borrower string) error {
	if p.status != StatusInStock {
		return ErrNotInStock
	}
	if borrower == "" {
		return ErrBorrowerRequired
	}
	p.status = StatusLoaned
	p.borrower = borrower
	return nil
}

// TakeBack transitions loaned -> in_stock and clears the borrower.
func (p *Product) TakeBack() error {
	if p.status != StatusLoaned {
		return ErrNotLoaned
	}
	p.status = StatusInStock
	p.borrower = ""
	return nil
}

// MarkSold is reachable from either in_stock or loaned (a borrower may buy).
func (p *Product) MarkSold() error {
	if p.status == StatusSold {
		return ErrInvalidStatus
	}
	p.status = StatusSold
	p.borrower = ""
	return nil
}

func (p *Product) IsAvailable() bool {
	return p.status == StatusInStock
}

func (p *Product) SetQRPayload(payload string) {
	p.qrPayload = payload
}

func (p *Product) SetDetails(category, detail, specWeight, remark, loginDate string, taxIncluded bool) {
	p.category = category
	p.detail = detail
	p.specWeight = specWeight
	p.remark = remark
	p.loginDate = loginDate
	p.taxIncluded = taxIncluded
	if detail != "" {
		p.name = detail
	}
}

func (p *Product) ID() int64           { return p.id }
func (p *Product) SKU() string         { return p.sku }
func (p *Product) Name() string        { return p.name }
func (p *Product) Category() string    { return p.category }
func (p *Product) Detail() string      { return p.detail }
func (p *Product) SpecWeight() string  { return p.specWeight }
func (p *Product) Unit() string        { return p.unit }
func (p *Product) CostPrice() int64    { return p.costPrice }
func (p *Product) SalePrice() int64    { return p.salePrice }
func (p *Product) TaxIncluded() bool   { return p.taxIncluded }
func (p *Product) Remark() string      { return p.remark }
func (p *Product) Status() Status      { return p.status }
func (p *Product) Borrower() string    { return p.borrower }
func (p *Product) QRPayload() string   { return p.qrPayload }
func (p *Product) LoginDate() string   { return p.loginDate }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }
