package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS tells the browser that allowedOrigin may call the API with
// credentials (the session and token cookies).
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Only the configured storefront origin
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Vary", "Origin")

		// 2. Cookies travel with cross-origin requests
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Headers and methods the API uses
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		// 4. Preflight
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
