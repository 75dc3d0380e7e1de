package cart

import (
	"context"

	"tajer-be/internal/coupon"
	"tajer-be/internal/logger"
	"tajer-be/internal/pricing"
	"tajer-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts. Every operation is scoped
// by the owning user id; a cart is never addressed by id alone.
type Service interface {
	AddItem(ctx context.Context, userID, productID, color string) (*Cart, error)
	Get(ctx context.Context, userID string) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error)
	ApplyCoupon(ctx context.Context, userID, couponName string) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
	coupons     coupon.Service
}

func NewService(repo Repository, productRepo product.Repository, coupons coupon.Service) Service {
	return &service{repo: repo, productRepo: productRepo, coupons: coupons}
}

// AddItem looks up the live catalog price and snapshots it into the item.
func (s *service) AddItem(ctx context.Context, userID, productID, color string) (*Cart, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	return s.repo.AddItem(ctx, userID, productID, color, p.Price)
}

func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	return s.repo.RemoveItem(ctx, userID, itemID)
}

// ApplyCoupon validates the code and persists the discounted total. Any
// later cart mutation clears it, so a coupon must be re-applied after
// changing the cart.
func (s *service) ApplyCoupon(ctx context.Context, userID, couponName string) (*Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cpn, err := s.coupons.Validate(ctx, couponName)
	if err != nil {
		return nil, err
	}

	discounted, err := pricing.DiscountedTotal(c.TotalCartPrice, cpn.Discount)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("coupon applied",
		zap.String("user_id", userID),
		zap.String("coupon", cpn.Name),
		zap.Float64("total", c.TotalCartPrice),
		zap.Float64("discounted", discounted),
	)

	return s.repo.SetDiscountTotal(ctx, userID, discounted)
}

func (s *service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
