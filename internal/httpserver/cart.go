package httpserver

import (
	"net/http"

	"tajer-be/internal/cart"
	"tajer-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Color     string `json:"color"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type applyCouponRequest struct {
	CouponName string `json:"couponName" binding:"required"`
}

func actorID(c *gin.Context) string {
	id, _ := utils.GetUserIDFromContext(c.Request.Context())
	return id
}

func getCartHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := svc.Get(c.Request.Context(), actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"numOfCartItems": len(crt.Items), "data": crt})
	}
}

func addCartItemHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		crt, err := svc.AddItem(c.Request.Context(), actorID(c), req.ProductID, req.Color)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"numOfCartItems": len(crt.Items), "data": crt})
	}
}

func updateCartItemHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		crt, err := svc.UpdateItemQuantity(c.Request.Context(), actorID(c), c.Param("itemId"), req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"numOfCartItems": len(crt.Items), "data": crt})
	}
}

func removeCartItemHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := svc.RemoveItem(c.Request.Context(), actorID(c), c.Param("itemId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"numOfCartItems": len(crt.Items), "data": crt})
	}
}

func applyCouponHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		crt, err := svc.ApplyCoupon(c.Request.Context(), actorID(c), req.CouponName)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"numOfCartItems": len(crt.Items), "data": crt})
	}
}

func clearCartHandler(svc cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), actorID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
