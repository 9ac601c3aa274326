package carterrors

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("book is not in the cart")
)
