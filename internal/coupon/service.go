package coupon

import (
	"context"

	"tajer-be/internal/logger"

	"go.uber.org/zap"
)

// Service validates discount codes. Validation has no side effects:
// coupons stay reusable until their expiry.
type Service interface {
	Validate(ctx context.Context, name string) (*Coupon, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Validate(ctx context.Context, name string) (*Coupon, error) {
	if name == "" {
		return nil, ErrCouponNotFound
	}

	c, err := s.repo.GetValidByName(ctx, name)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to look up coupon",
			zap.String("layer", "service"),
			zap.String("method", "Validate"),
			zap.Error(err),
		)
		return nil, err
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}

	return c, nil
}
