package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tajer-be/internal/cart"
	"tajer-be/internal/inventory"
	"tajer-be/internal/logger"
	"tajer-be/internal/metrics"
	"tajer-be/internal/order"
	"tajer-be/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignatureHeader carries the provider's HMAC over the raw body.
const SignatureHeader = "Provider-Signature"

// webhookHandler verifies, dedups and fulfills provider notifications.
// The provider redelivers on any non-2xx, so the status code is the
// retry contract: 200 means done (or permanently undoable), 500 means
// try again.
func webhookHandler(gateway payment.Gateway, svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromCtx(c.Request.Context())
		metrics.Checkout.WebhookReceived.Inc()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if err := gateway.VerifySignature(c.GetHeader(SignatureHeader), body); err != nil {
			metrics.Checkout.WebhookRejected.Inc()
			log.Warn("webhook signature rejected", zap.Error(err))
			respondError(c, err)
			return
		}

		var event payment.Event
		if err := json.Unmarshal(body, &event); err != nil {
			metrics.Checkout.WebhookRejected.Inc()
			log.Warn("malformed webhook payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			return
		}

		if event.Type != payment.EventCheckoutCompleted {
			log.Info("ignoring webhook event", zap.String("type", event.Type))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		o, err := svc.CreateFromPaymentEvent(c.Request.Context(), event)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"received": true, "order_id": o.ID})
		case errors.Is(err, order.ErrDuplicateEvent),
			errors.Is(err, cart.ErrCartNotFound),
			errors.Is(err, order.ErrCartEmpty):
			// A previous delivery already fulfilled this checkout. The
			// cart may be gone or merely emptied since; retrying cannot
			// change either.
			metrics.Checkout.WebhookDuplicates.Inc()
			c.JSON(http.StatusOK, gin.H{"received": true})
		case errors.Is(err, inventory.ErrInsufficientStock):
			// Terminal: the stock is gone and retrying cannot bring it
			// back. Acknowledge and leave the payment to reconciliation.
			log.Error("paid checkout could not be fulfilled",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusOK, gin.H{"received": true})
		default:
			log.Error("webhook processing failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		}
	}
}
