package middleware

import (
	"net/http"                     // HTTP status codes
	"wallet_ledger/internal/utils" // Internal claims

	"github.com/gin-gonic/gin" // Gin web framework
)

// InternalVerifier checks internal service tokens
type InternalVerifier interface {
	Verify(token string) (*utils.InternalClaims, error)
}

// InternalAuthMiddleware only admits requests carrying a valid internal-scope token
func InternalAuthMiddleware(verifier InternalVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("service", claims.Subject) // Calling service name
		c.Next()
	}
}
