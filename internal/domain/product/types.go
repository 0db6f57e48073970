package product

import "errors"

var ErrInvalidStatus = errors.New("invalid product status")

// Status is the mutually exclusive availability state of a product.
type Status string

const (
	StatusInStock Status = "in_stock"
	StatusLoaned  Status = "loaned"
	StatusSold    Status = "sold"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInStock, StatusLoaned, StatusSold:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}
