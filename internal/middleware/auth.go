package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront/internal/auth"
)

const (
	// TokenCookie carries the customer session token.
	TokenCookie   = "customer_token"
	customerIDKey = "customer_id"
)

// CustomerAuth resolves the customer from a Bearer header or the token
// cookie. Requests without a valid token continue anonymously.
func CustomerAuth(tokens *auth.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token != "" {
			if id, err := tokens.ValidateToken(token); err == nil {
				c.Set(customerIDKey, id)
			}
		}
		c.Next()
	}
}

// RequireCustomer rejects requests CustomerAuth could not resolve.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CustomerID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		c.Next()
	}
}

// CustomerID returns the signed-in customer, if any.
func CustomerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(customerIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
