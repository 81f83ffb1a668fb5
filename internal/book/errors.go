package book

import "errors"

// Validation rejections. No state mutation happens when any of these is
// returned.
var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInsufficientMargin = errors.New("insufficient margin")
	ErrNotFound           = errors.New("order not found")
)
