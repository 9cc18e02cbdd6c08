package middleware

import (
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation
	"wallet_ledger/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

const principalKey = "principal" // Context key for the authenticated user

// Principal is the authenticated caller of a user-facing route
type Principal struct {
	UserID string // Token subject
	Email  string // Token email claim
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	// Check if the Authorization header is present and properly formatted
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
	return token, token != ""
}

// JWTAuthMiddleware validates user access tokens and stores the Principal
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(principalKey, Principal{UserID: claims.Subject, Email: claims.Email}) // Store principal in context
		c.Next()                                                                    // Proceed to the next handler
	}
}

// CurrentUser returns the Principal stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
