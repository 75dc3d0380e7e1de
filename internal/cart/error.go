package cart

import "errors"

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)
