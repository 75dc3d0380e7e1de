package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout holds the counters the checkout core reports.
// All counters are process-local and reset on restart.
var Checkout = struct {
	OrdersCreated     Counter
	CashOrders        Counter
	CardOrders        Counter
	WebhookReceived   Counter
	WebhookDuplicates Counter
	WebhookRejected   Counter
	StockRejections   Counter
}{}

// Snapshot returns the current counter values keyed by name.
func Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":     Checkout.OrdersCreated.Load(),
		"cash_orders":        Checkout.CashOrders.Load(),
		"card_orders":        Checkout.CardOrders.Load(),
		"webhook_received":   Checkout.WebhookReceived.Load(),
		"webhook_duplicates": Checkout.WebhookDuplicates.Load(),
		"webhook_rejected":   Checkout.WebhookRejected.Load(),
		"stock_rejections":   Checkout.StockRejections.Load(),
	}
}
