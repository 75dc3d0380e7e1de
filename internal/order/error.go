package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrCartEmpty     = errors.New("cart is empty")
	ErrOrderNotPaid  = errors.New("order is not paid")
	ErrForbidden     = errors.New("cannot access another customer's order")

	// ErrDuplicateEvent means the webhook event id was already consumed by
	// a committed fulfillment. Treated as idempotent success upstream.
	ErrDuplicateEvent = errors.New("payment event already processed")
)
