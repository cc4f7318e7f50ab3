package risk

import "errors"

var (
	ErrNoPosition   = errors.New("no open position")
	ErrInvalidSize  = errors.New("invalid order size")
	ErrInvalidPrice = errors.New("invalid order price")
)
