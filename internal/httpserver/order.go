package httpserver

import (
	"net/http"

	"tajer-be/internal/order"
	"tajer-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type shippingAddressRequest struct {
	Details    string `json:"details"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postalCode"`
}

type createOrderRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
}

func (r shippingAddressRequest) toDomain() order.ShippingAddress {
	return order.ShippingAddress{
		Details:    r.Details,
		City:       r.City,
		Phone:      r.Phone,
		PostalCode: r.PostalCode,
	}
}

func createCashOrderHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		o, err := svc.CreateCashOrder(c.Request.Context(), actorID(c), c.Param("cartId"), req.ShippingAddress.toDomain())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": o})
	}
}

func checkoutSessionHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The shipping address is optional at session time; whatever is
		// provided rides through the provider as session metadata.
		var req createOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		sess, err := svc.CreateCheckoutSession(c.Request.Context(), actorID(c), c.Param("cartId"), req.ShippingAddress.toDomain())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": sess})
	}
}

func listOrdersHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetUserRoleFromContext(c.Request.Context())
		orders, err := svc.List(c.Request.Context(), actorID(c), role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": len(orders), "data": orders})
	}
}

func getOrderHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetUserRoleFromContext(c.Request.Context())
		o, err := svc.Get(c.Request.Context(), actorID(c), role, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": o})
	}
}

func markPaidHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.MarkPaid(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": o})
	}
}

func markDeliveredHandler(svc order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.MarkDelivered(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": o})
	}
}
