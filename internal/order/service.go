package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tajer-be/internal/cart"
	"tajer-be/internal/inventory"
	"tajer-be/internal/logger"
	"tajer-be/internal/metrics"
	"tajer-be/internal/payment"
	"tajer-be/internal/pricing"
	"tajer-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fees are the order-level pricing inputs added on top of the cart total.
// Configurable, not constants.
type Fees struct {
	Tax      float64
	Shipping float64
	Currency string
}

type Service interface {
	// CreateCashOrder runs the synchronous cash path: snapshot the cart,
	// adjust stock and clear the cart as one fulfillment transaction.
	CreateCashOrder(ctx context.Context, userID, cartID string, addr ShippingAddress) (*Order, error)

	// CreateCheckoutSession starts the asynchronous card path: a hosted
	// provider session carrying the correlation metadata. The order is
	// created later, on webhook delivery.
	CreateCheckoutSession(ctx context.Context, userID, cartID string, addr ShippingAddress) (*payment.CheckoutSession, error)

	// CreateFromPaymentEvent converts a verified completion event into an
	// order. Safe to invoke more than once per event.
	CreateFromPaymentEvent(ctx context.Context, event payment.Event) (*Order, error)

	Get(ctx context.Context, actorID, role, orderID string) (*Order, error)
	List(ctx context.Context, actorID, role string) ([]*Order, error)

	MarkPaid(ctx context.Context, orderID string) (*Order, error)
	MarkDelivered(ctx context.Context, orderID string) (*Order, error)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	gateway  payment.Gateway
	fees     Fees
}

func NewService(repo Repository, cartRepo cart.Repository, gateway payment.Gateway, fees Fees) Service {
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		gateway:  gateway,
		fees:     fees,
	}
}

// cartTotal picks the discounted total when a coupon was applied,
// otherwise the plain cart total, and adds tax and shipping.
func (s *service) cartTotal(c *cart.Cart) float64 {
	total := c.TotalCartPrice
	if c.TotalPriceAfterDiscount != nil {
		total = *c.TotalPriceAfterDiscount
	}
	return pricing.Round2(total + s.fees.Tax + s.fees.Shipping)
}

func snapshotItems(c *cart.Cart, orderID string) []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, ci := range c.Items {
		items = append(items, OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: ci.ProductID,
			Color:     ci.Color,
			Quantity:  ci.Quantity,
			Price:     ci.Price,
		})
	}
	return items
}

// loadCart fetches the actor's cart. A non-empty cartID must match the
// cart actually on file; a stale id reads as not found.
func (s *service) loadCart(ctx context.Context, userID, cartID string) (*cart.Cart, error) {
	c, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil || (cartID != "" && c.ID != cartID) {
		return nil, cart.ErrCartNotFound
	}
	if len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}
	return c, nil
}

func (s *service) CreateCashOrder(ctx context.Context, userID, cartID string, addr ShippingAddress) (*Order, error) {
	c, err := s.loadCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		ShippingAddress: addr,
		TaxPrice:        s.fees.Tax,
		ShippingPrice:   s.fees.Shipping,
		TotalOrderPrice: s.cartTotal(c),
		PaymentMethod:   PaymentCash,
	}
	o.Items = snapshotItems(c, o.ID)

	if err := s.repo.CreateOrderTx(ctx, o, ""); err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			metrics.Checkout.StockRejections.Inc()
		}
		return nil, err
	}

	metrics.Checkout.OrdersCreated.Inc()
	metrics.Checkout.CashOrders.Inc()

	logger.FromCtx(ctx).Info("cash order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.Float64("total", o.TotalOrderPrice),
	)

	return o, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, userID, cartID string, addr ShippingAddress) (*payment.CheckoutSession, error) {
	c, err := s.loadCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return nil, err
	}

	lines := make([]payment.SessionLineItem, 0, len(c.Items))
	for _, ci := range c.Items {
		lines = append(lines, payment.SessionLineItem{
			Name:       ci.ProductID,
			Quantity:   ci.Quantity,
			UnitAmount: ci.Price,
		})
	}

	return s.gateway.CreateCheckoutSession(ctx, payment.SessionParams{
		UserID:          userID,
		CartID:          c.ID,
		Amount:          s.cartTotal(c),
		Currency:        s.fees.Currency,
		ShippingAddress: string(addrJSON),
		LineItems:       lines,
	})
}

func (s *service) CreateFromPaymentEvent(ctx context.Context, event payment.Event) (*Order, error) {
	obj := event.Data.Object
	userID := obj.Metadata[payment.MetaUserID]

	log := logger.FromCtx(ctx).With(
		zap.String("event_id", event.ID),
		zap.String("session_id", obj.ID),
		zap.String("user_id", userID),
	)

	// The session was created against a specific cart; a different cart on
	// file now means this checkout was already fulfilled (or abandoned).
	c, err := s.loadCart(ctx, userID, obj.ClientReferenceID)
	if err != nil {
		return nil, err
	}

	var addr ShippingAddress
	if raw := obj.Metadata[payment.MetaShippingAddress]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			log.Warn("unparseable shipping address in session metadata", zap.Error(err))
		}
	}

	now := time.Now()
	sessionID := obj.ID
	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		SessionID:       &sessionID,
		ShippingAddress: addr,
		TaxPrice:        s.fees.Tax,
		ShippingPrice:   s.fees.Shipping,
		// The provider-captured amount is authoritative; cart state at
		// webhook time is never trusted for the charge.
		TotalOrderPrice: pricing.Round2(obj.AmountTotal),
		PaymentMethod:   PaymentCard,
		IsPaid:          true,
		PaidAt:          &now,
	}
	o.Items = snapshotItems(c, o.ID)

	if err := s.repo.CreateOrderTx(ctx, o, event.ID); err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			metrics.Checkout.StockRejections.Inc()
		}
		return nil, err
	}

	metrics.Checkout.OrdersCreated.Inc()
	metrics.Checkout.CardOrders.Inc()

	log.Info("card order created from payment event",
		zap.String("order_id", o.ID),
		zap.Float64("total", o.TotalOrderPrice),
	)

	return o, nil
}

func (s *service) Get(ctx context.Context, actorID, role, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if role == utils.RoleUser && o.UserID != actorID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) List(ctx context.Context, actorID, role string) ([]*Order, error) {
	all := role == utils.RoleAdmin || role == utils.RoleManager
	return s.repo.List(ctx, actorID, all)
}

func (s *service) MarkPaid(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.MarkPaid(ctx, orderID, time.Now())
}

func (s *service) MarkDelivered(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.MarkDelivered(ctx, orderID, time.Now())
}
