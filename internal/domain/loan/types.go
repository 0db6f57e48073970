package loan

import "errors"

var ErrInvalidStatus = errors.New("invalid loan status")

// Status of a loan order. Orders only ever move active -> closed.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusClosed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}
