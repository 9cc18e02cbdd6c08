package utils

import (
	"errors" // Error inspection
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

const (
	InternalScope    = "internal"      // Scope marker carried by service tokens
	InternalTokenTTL = 5 * time.Minute // Absolute lifetime of a service token
)

// ErrTokenScope is returned when a token lacks the internal scope marker
var ErrTokenScope = errors.New("token scope is not internal")

// JWT Claims for user access tokens
type Claims struct {
	Email                string `json:"email"` // Custom claim for the user's email
	jwt.RegisteredClaims                       // Standard JWT claims, Subject carries the user ID
}

// InternalClaims for service-to-service tokens
type InternalClaims struct {
	Scope                string `json:"scope"` // Always InternalScope
	jwt.RegisteredClaims                       // Subject carries the issuing service name
}

// GenerateJWT creates an access token for a user
func GenerateJWT(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		Email: email, // Custom claim for email
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,                           // Token bound to the user ID
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Expiry from configuration
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a user access token
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Service tokens must never pass as user tokens
	if !token.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateInternalJWT creates a service token issued at issuedAt
func GenerateInternalJWT(subject, secret string, issuedAt time.Time) (string, error) {
	claims := InternalClaims{
		Scope: InternalScope, // Fixed scope marker
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,                                            // Issuing service
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(InternalTokenTTL)), // Five minute expiry
			IssuedAt:  jwt.NewNumericDate(issuedAt),                       // Issued at
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseInternalJWT validates a service token signed with secret and issued by subject
func ParseInternalJWT(tokenStr, secret, subject string) (*InternalClaims, error) {
	claims := &InternalClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // HMAC only
		jwt.WithExpirationRequired(),                                 // Reject tokens without exp
		jwt.WithSubject(subject),                                     // Only the trusted publisher
	)
	if err != nil {
		return nil, err // Bad signature, expired, wrong subject
	}
	if claims.Scope != InternalScope {
		return nil, ErrTokenScope
	}
	return claims, nil
}
