package httpserver

import (
	"database/sql"
	"net/http"

	"tajer-be/internal/cart"
	"tajer-be/internal/logger"
	"tajer-be/internal/metrics"
	"tajer-be/internal/middleware"
	"tajer-be/internal/order"
	"tajer-be/internal/payment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the services the API serves.
type Deps struct {
	CartSvc  cart.Service
	OrderSvc order.Service
	Gateway  payment.Gateway

	// JWTSecret verifies access tokens issued by the identity service.
	JWTSecret string
}

// buildRouter wires routes for the API.
func buildRouter(db *sql.DB, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.RequestID(),
		logger.RequestLogger(),
		cors.Default(),
		middleware.Auth(deps.JWTSecret),
		middleware.RateLimit(),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})

	// Raw-body signature verification happens in the handler, before any
	// parsing; the route stays outside auth.
	router.POST("/webhook-checkout", webhookHandler(deps.Gateway, deps.OrderSvc))

	api := router.Group("/api/v1")

	carts := api.Group("/cart", middleware.Require(middleware.ActionCartManage))
	{
		carts.GET("", getCartHandler(deps.CartSvc))
		carts.POST("", addCartItemHandler(deps.CartSvc))
		carts.DELETE("", clearCartHandler(deps.CartSvc))
		carts.PUT("/applyCoupon", applyCouponHandler(deps.CartSvc))
		carts.PUT("/:itemId", updateCartItemHandler(deps.CartSvc))
		carts.DELETE("/:itemId", removeCartItemHandler(deps.CartSvc))
	}

	orders := api.Group("/orders")
	{
		orders.GET("", middleware.Require(middleware.ActionOrderRead), listOrdersHandler(deps.OrderSvc))
		orders.GET("/checkout-session/:cartId", middleware.Require(middleware.ActionCheckout), checkoutSessionHandler(deps.OrderSvc))
		orders.POST("/:cartId", middleware.Require(middleware.ActionCheckout), createCashOrderHandler(deps.OrderSvc))
		orders.GET("/:id", middleware.Require(middleware.ActionOrderRead), getOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/paid", middleware.Require(middleware.ActionOrderSetPaid), markPaidHandler(deps.OrderSvc))
		orders.PUT("/:id/delivered", middleware.Require(middleware.ActionOrderSetDelivered), markDeliveredHandler(deps.OrderSvc))
	}

	return router
}
