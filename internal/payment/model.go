package payment

// CheckoutSession is the provider-hosted payment flow the customer is
// redirected to. The core persists nothing about it; correlation data
// rides in the session's opaque metadata and comes back on the webhook.
type CheckoutSession struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	AmountTotal float64 `json:"amount_total"`
	Currency    string  `json:"currency"`
}

type SessionParams struct {
	UserID string
	CartID string

	Amount   float64
	Currency string

	// ShippingAddress is serialized JSON, carried opaquely through the
	// provider and echoed back in the completion event.
	ShippingAddress string

	LineItems []SessionLineItem
}

type SessionLineItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitAmount float64 `json:"unit_amount"`
}

// EventCheckoutCompleted is the only event type the core acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a provider webhook notification. Delivery is at-least-once.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object SessionObject `json:"object"`
}

// SessionObject is the completed session as reported by the provider.
// AmountTotal is the authoritative captured amount.
type SessionObject struct {
	ID                string            `json:"id"`
	AmountTotal       float64           `json:"amount_total"`
	Currency          string            `json:"currency"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

// Metadata keys the core writes when creating a session.
const (
	MetaUserID          = "user_id"
	MetaShippingAddress = "shipping_address"
)
