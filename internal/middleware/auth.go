package middleware

import (
	"net/http"
	"strings"

	"tajer-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ExtractAccessToken pulls the token from the access_token cookie,
// falling back to the Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// Auth verifies the bearer token and attaches the caller's identity to
// the request context. Anonymous requests pass through untouched; route
// guards decide whether identity is required.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenStr := ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if userID != "" {
				if role == "" {
					role = utils.RoleUser
				}
				ctx := utils.SetUserContext(c.Request.Context(), userID, role)
				c.Request = c.Request.WithContext(ctx)
			}
		}

		c.Next()
	}
}
