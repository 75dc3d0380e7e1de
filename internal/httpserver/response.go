package httpserver

import (
	"errors"
	"net/http"

	"tajer-be/internal/cart"
	"tajer-be/internal/coupon"
	"tajer-be/internal/inventory"
	"tajer-be/internal/logger"
	"tajer-be/internal/order"
	"tajer-be/internal/payment"
	"tajer-be/internal/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates domain sentinels into HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, order.ErrOrderNotPaid),
		errors.Is(err, pricing.ErrInvalidDiscount),
		errors.Is(err, payment.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, inventory.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, payment.ErrProviderUnreachable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
