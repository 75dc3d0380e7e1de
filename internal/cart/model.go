package cart

import "time"

// Cart is the mutable per-customer staging area. At most one active cart
// per customer; destroyed on successful order creation or explicit clear.
type Cart struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"cart_items"`

	// TotalCartPrice is recomputed in the same transaction as every item
	// mutation. TotalPriceAfterDiscount is cleared on every mutation and
	// only set by ApplyCoupon.
	TotalCartPrice          float64  `json:"total_cart_price"`
	TotalPriceAfterDiscount *float64 `json:"total_price_after_discount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem snapshots the unit price at add time so later catalog price
// changes never alter an in-progress cart.
type CartItem struct {
	ID        string  `json:"id"`
	CartID    string  `json:"-"`
	ProductID string  `json:"product_id"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
