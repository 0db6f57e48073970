// Package stock holds warehouse movement primitives.
package stock

import "errors"

var ErrInvalidDirection = errors.New("invalid stock move direction")

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func NewDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) String() string {
	return string(d)
}
