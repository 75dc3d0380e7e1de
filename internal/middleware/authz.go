package middleware

import (
	"net/http"

	"tajer-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Actions the API can demand of a caller.
const (
	ActionCartManage        = "cart:manage"
	ActionCheckout          = "order:checkout"
	ActionOrderRead         = "order:read"
	ActionOrderSetPaid      = "order:set-paid"
	ActionOrderSetDelivered = "order:set-delivered"
	ActionMetricsRead       = "metrics:read"
)

// capabilities maps role -> actions. Carts and checkout belong to
// shoppers; staff accounts read orders and drive status transitions.
var capabilities = map[string]map[string]bool{
	utils.RoleUser: {
		ActionCartManage: true,
		ActionCheckout:   true,
		ActionOrderRead:  true,
	},
	utils.RoleManager: {
		ActionOrderRead:   true,
		ActionMetricsRead: true,
	},
	utils.RoleAdmin: {
		ActionOrderRead:         true,
		ActionOrderSetPaid:      true,
		ActionOrderSetDelivered: true,
		ActionMetricsRead:       true,
	},
}

// Allow answers whether role may perform action. Pure function, no
// transport involved.
func Allow(role, action string) bool {
	return capabilities[role][action]
}

// Require guards a route with an action: 401 without identity, 403 when
// the role lacks the capability.
func Require(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, ok := utils.GetUserIDFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		role, _ := utils.GetUserRoleFromContext(c.Request.Context())
		if !Allow(role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}

		c.Next()
	}
}
