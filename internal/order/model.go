package order

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Order is an immutable record of a completed purchase intent. After
// creation only the two monotonic status transitions (paid, delivered)
// may change it, and it is never deleted.
type Order struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// SessionID correlates a card order back to its checkout session.
	// Unique when set; nil for cash orders.
	SessionID *string `json:"session_id,omitempty"`

	Items           []OrderItem     `json:"cart_items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`

	TaxPrice        float64 `json:"tax_price"`
	ShippingPrice   float64 `json:"shipping_price"`
	TotalOrderPrice float64 `json:"total_order_price"`

	PaymentMethod PaymentMethod `json:"payment_method_type"`

	IsPaid      bool       `json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	IsDelivered bool       `json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a snapshot taken from the cart at creation time, decoupled
// from any later cart or product mutation.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"-"`
	ProductID string  `json:"product_id"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type ShippingAddress struct {
	Details    string `json:"details"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
}
