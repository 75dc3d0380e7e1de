package order

import (
	"context"
	"testing"
	"time"

	"tajer-be/internal/cart"
	"tajer-be/internal/inventory"
	"tajer-be/internal/payment"
	"tajer-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order, eventID string) error {
	args := m.Called(ctx, o, eventID)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID string, all bool) ([]*Order, error) {
	args := m.Called(ctx, userID, all)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) MarkPaid(ctx context.Context, orderID string, at time.Time) (*Order, error) {
	args := m.Called(ctx, orderID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) MarkDelivered(ctx context.Context, orderID string, at time.Time) (*Order, error) {
	args := m.Called(ctx, orderID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

// MockCartRepository is a mock implementation of cart.Repository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, userID, productID, color string, price float64) (*cart.Cart, error) {
	args := m.Called(ctx, userID, productID, color, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, itemID string) (*cart.Cart, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) SetDiscountTotal(ctx context.Context, userID string, total float64) (*cart.Cart, error) {
	args := m.Called(ctx, userID, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) VerifySignature(signature string, body []byte) error {
	args := m.Called(signature, body)
	return args.Error(0)
}

func discountedCart() *cart.Cart {
	// Two items at 100 each, a 10% coupon applied.
	discounted := 180.0
	return &cart.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []cart.CartItem{
			{ID: "ci-1", ProductID: "prod-1", Color: "blue", Quantity: 1, Price: 100},
			{ID: "ci-2", ProductID: "prod-2", Color: "red", Quantity: 1, Price: 100},
		},
		TotalCartPrice:          200,
		TotalPriceAfterDiscount: &discounted,
	}
}

func testAddr() ShippingAddress {
	return ShippingAddress{Details: "123 Street", City: "Cairo", Phone: "01123456789", PostalCode: "11511"}
}

func TestService_CreateCashOrder(t *testing.T) {
	t.Run("UsesDiscountedTotal", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)

		var created *Order
		repo.On("CreateOrderTx", mock.Anything, mock.AnythingOfType("*order.Order"), "").
			Run(func(args mock.Arguments) { created = args.Get(1).(*Order) }).
			Return(nil)

		o, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-1", testAddr())
		require.NoError(t, err)

		assert.Equal(t, 180.0, o.TotalOrderPrice)
		assert.Equal(t, PaymentCash, o.PaymentMethod)
		assert.False(t, o.IsPaid)
		assert.Len(t, o.Items, 2)
		assert.Equal(t, 100.0, o.Items[0].Price)
		assert.Same(t, o, created)
		repo.AssertExpectations(t)
	})

	t.Run("AddsFees", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{Tax: 14, Shipping: 25})

		c := discountedCart()
		c.TotalPriceAfterDiscount = nil
		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(c, nil)
		repo.On("CreateOrderTx", mock.Anything, mock.Anything, "").Return(nil)

		o, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-1", testAddr())
		require.NoError(t, err)
		assert.Equal(t, 239.0, o.TotalOrderPrice)
		assert.Equal(t, 14.0, o.TaxPrice)
		assert.Equal(t, 25.0, o.ShippingPrice)
	})

	t.Run("CartNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(nil, nil)

		_, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-1", testAddr())
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StaleCartID", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)

		_, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-old", testAddr())
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").
			Return(&cart.Cart{ID: "cart-1", UserID: "user-1"}, nil)

		_, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-1", testAddr())
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)
		repo.On("CreateOrderTx", mock.Anything, mock.Anything, "").
			Return(inventory.ErrInsufficientStock)

		_, err := svc.CreateCashOrder(context.Background(), "user-1", "cart-1", testAddr())
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	})
}

func TestService_CreateCheckoutSession(t *testing.T) {
	repo := new(MockRepository)
	cartRepo := new(MockCartRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, cartRepo, gateway, Fees{Currency: "egp"})

	cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)

	var params payment.SessionParams
	gateway.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("payment.SessionParams")).
		Run(func(args mock.Arguments) { params = args.Get(1).(payment.SessionParams) }).
		Return(&payment.CheckoutSession{ID: "sess-1", URL: "https://pay.example/sess-1"}, nil)

	sess, err := svc.CreateCheckoutSession(context.Background(), "user-1", "cart-1", testAddr())
	require.NoError(t, err)

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "user-1", params.UserID)
	assert.Equal(t, "cart-1", params.CartID)
	assert.Equal(t, 180.0, params.Amount)
	assert.Equal(t, "egp", params.Currency)
	assert.Contains(t, params.ShippingAddress, "Cairo")
	assert.Len(t, params.LineItems, 2)
	// The session only starts the flow: no order, no repository writes.
	repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
}

func completedEvent() payment.Event {
	return payment.Event{
		ID:   "evt-1",
		Type: payment.EventCheckoutCompleted,
		Data: payment.EventData{
			Object: payment.SessionObject{
				ID:                "sess-1",
				AmountTotal:       180,
				Currency:          "egp",
				ClientReferenceID: "cart-1",
				Metadata: map[string]string{
					payment.MetaUserID:          "user-1",
					payment.MetaShippingAddress: `{"details":"123 Street","city":"Cairo","phone":"01123456789","postalCode":"11511"}`,
				},
			},
		},
	}
}

func TestService_CreateFromPaymentEvent(t *testing.T) {
	t.Run("CreatesPaidCardOrder", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)
		repo.On("CreateOrderTx", mock.Anything, mock.AnythingOfType("*order.Order"), "evt-1").Return(nil)

		o, err := svc.CreateFromPaymentEvent(context.Background(), completedEvent())
		require.NoError(t, err)

		assert.Equal(t, PaymentCard, o.PaymentMethod)
		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaidAt)
		require.NotNil(t, o.SessionID)
		assert.Equal(t, "sess-1", *o.SessionID)
		assert.Equal(t, 180.0, o.TotalOrderPrice)
		assert.Equal(t, "Cairo", o.ShippingAddress.City)
		repo.AssertExpectations(t)
	})

	t.Run("CapturedAmountWins", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		// Cart drifted after the session was created; the charge stands.
		c := discountedCart()
		c.TotalPriceAfterDiscount = nil
		c.TotalCartPrice = 999
		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(c, nil)
		repo.On("CreateOrderTx", mock.Anything, mock.Anything, "evt-1").Return(nil)

		o, err := svc.CreateFromPaymentEvent(context.Background(), completedEvent())
		require.NoError(t, err)
		assert.Equal(t, 180.0, o.TotalOrderPrice)
	})

	t.Run("DuplicateEvent", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(discountedCart(), nil)
		repo.On("CreateOrderTx", mock.Anything, mock.Anything, "evt-1").
			Return(ErrDuplicateEvent)

		_, err := svc.CreateFromPaymentEvent(context.Background(), completedEvent())
		assert.ErrorIs(t, err, ErrDuplicateEvent)
	})

	t.Run("CartAlreadyDeleted", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)
		svc := NewService(repo, cartRepo, new(MockGateway), Fees{})

		cartRepo.On("GetByUser", mock.Anything, "user-1").Return(nil, nil)

		_, err := svc.CreateFromPaymentEvent(context.Background(), completedEvent())
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Get(t *testing.T) {
	t.Run("OwnerReadsOwnOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("GetByID", mock.Anything, "order-1").
			Return(&Order{ID: "order-1", UserID: "user-1"}, nil)

		o, err := svc.Get(context.Background(), "user-1", utils.RoleUser, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "order-1", o.ID)
	})

	t.Run("ForeignOrderForbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("GetByID", mock.Anything, "order-1").
			Return(&Order{ID: "order-1", UserID: "user-2"}, nil)

		_, err := svc.Get(context.Background(), "user-1", utils.RoleUser, "order-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("AdminReadsAnyOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("GetByID", mock.Anything, "order-1").
			Return(&Order{ID: "order-1", UserID: "user-2"}, nil)

		_, err := svc.Get(context.Background(), "admin-1", utils.RoleAdmin, "order-1")
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("GetByID", mock.Anything, "missing").Return(nil, nil)

		_, err := svc.Get(context.Background(), "user-1", utils.RoleUser, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_List(t *testing.T) {
	t.Run("UserSeesOwnOrders", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("List", mock.Anything, "user-1", false).Return([]*Order{{ID: "order-1"}}, nil)

		orders, err := svc.List(context.Background(), "user-1", utils.RoleUser)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
		repo.AssertExpectations(t)
	})

	t.Run("AdminSeesAll", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

		repo.On("List", mock.Anything, "admin-1", true).Return([]*Order{}, nil)

		_, err := svc.List(context.Background(), "admin-1", utils.RoleAdmin)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_StatusTransitions(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCartRepository), new(MockGateway), Fees{})

	repo.On("MarkPaid", mock.Anything, "order-1", mock.AnythingOfType("time.Time")).
		Return(&Order{ID: "order-1", IsPaid: true}, nil)
	repo.On("MarkDelivered", mock.Anything, "order-1", mock.AnythingOfType("time.Time")).
		Return(&Order{ID: "order-1", IsPaid: true, IsDelivered: true}, nil)

	paid, err := svc.MarkPaid(context.Background(), "order-1")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	delivered, err := svc.MarkDelivered(context.Background(), "order-1")
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
}
