package loan

import (
	"errors"
	"time"
)

var (
	ErrAlreadyClosed   = errors.New("loan order is already closed")
	ErrItemReturned    = errors.New("loan item is already returned")
	ErrItemNotInOrder  = errors.New("sku is not part of this loan order")
	ErrDuplicateItem   = errors.New("duplicate product in loan order")
)

// Item is one product inside an order. Prices are snapshots taken at
// creation; they never track later catalog edits.
type Item struct {
	id         int64
	productID  int64
	sku        string
	price      int64
	finalPrice int64
	returned   bool
	returnedAt *time.Time
}

func (i *Item) ID() int64             { return i.id }
func (i *Item) ProductID() int64      { return i.productID }
func (i *Item) SKU() string           { return i.sku }
func (i *Item) Price() int64          { return i.price }
func (i *Item) FinalPrice() int64     { return i.finalPrice }
func (i *Item) Returned() bool        { return i.returned }
func (i *Item) ReturnedAt() *time.Time { return i.returnedAt }

// Order is a batch loan-out. total qty/amount are derived from the items
// at construction and stored denormalized.
type Order struct {
	id          int64
	loanNo      string
	counterpart Counterpart
	discount    Discount
	items       []Item
	status      Status
	createdAt   time.Time
	closedAt    *time.Time
}

// LineSpec is the per-product input to NewOrder: an in-stock product
// snapshot taken inside the creating transaction.
type LineSpec struct {
	ProductID int64
	SKU       string
	SalePrice int64
}

// NewOrder assembles an active order, snapshotting per-item final prices
// as round(sale_price * discount). Callers validate availability; the
// order itself only guards structural invariants.
func NewOrder(loanNo string, cp Counterpart, discount Discount, lines []LineSpec, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	seen := make(map[int64]struct{}, len(lines))
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ProductID]; dup {
			return nil, ErrDuplicateItem
		}
		seen[l.ProductID] = struct{}{}
		items = append(items, Item{
			productID:  l.ProductID,
			sku:        l.SKU,
			price:      l.SalePrice,
			finalPrice: discount.Apply(l.SalePrice),
		})
	}

	return &Order{
		loanNo:      loanNo,
		counterpart: cp,
		discount:    discount,
		items:       items,
		status:      StatusActive,
		createdAt:   now,
	}, nil
}

func ReconstructOrder(
	id int64,
	loanNo string,
	cp Counterpart,
	discount Discount,
	status Status,
	createdAt time.Time,
	closedAt *time.Time,
) *Order {
	return &Order{
		id:          id,
		loanNo:      loanNo,
		counterpart: cp,
		discount:    discount,
		status:      status,
		createdAt:   createdAt,
		closedAt:    closedAt,
	}
}

func ReconstructItem(id, productID int64, sku string, price, finalPrice int64, returned bool, returnedAt *time.Time) Item {
	return Item{
		id:         id,
		productID:  productID,
		sku:        sku,
		price:      price,
		finalPrice: finalPrice,
		returned:   returned,
		returnedAt: returnedAt,
	}
}

func (o *Order) AttachItems(items []Item) {
	o.items = items
}

// ReturnItem flips one item to returned. Returns whether every item in
// the order has now come back, which closes the order.
func (o *Order) ReturnItem(sku string, now time.Time) (allReturned bool, err error) {
	if o.status == StatusClosed {
		return false, ErrAlreadyClosed
	}

	found := false
	for idx := range o.items {
		if o.items[idx].sku != sku {
			continue
		}
		found = true
		if o.items[idx].returned {
			return false, ErrItemReturned
		}
		t := now
		o.items[idx].returned = true
		o.items[idx].returnedAt = &t
	}
	if !found {
		return false, ErrItemNotInOrder
	}

	for idx := range o.items {
		if !o.items[idx].returned {
			return false, nil
		}
	}
	o.status = StatusClosed
	t := now
	o.closedAt = &t
	return true, nil
}

func (o *Order) TotalQty() int64 {
	return int64(len(o.items))
}

func (o *Order) TotalAmount() int64 {
	var sum int64
	for idx := range o.items {
		sum += o.items[idx].finalPrice
	}
	return sum
}

func (o *Order) ID() int64               { return o.id }
func (o *Order) LoanNo() string          { return o.loanNo }
func (o *Order) Counterpart() Counterpart { return o.counterpart }
func (o *Order) Discount() Discount      { return o.discount }
func (o *Order) Items() []Item           { return o.items }
func (o *Order) Status() Status          { return o.status }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) ClosedAt() *time.Time    { return o.closedAt }
