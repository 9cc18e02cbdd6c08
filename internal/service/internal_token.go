package service

import (
	"fmt"                           // Error wrapping
	"time"                          // Issuance time
	"wallet_ledger/internal/domain" // Domain errors
	"wallet_ledger/internal/utils"  // JWT helpers
)

// InternalTokenIssuer signs short-lived service identity tokens
type InternalTokenIssuer struct {
	secret  string           // Internal signing secret
	subject string           // This service's well-known name
	now     func() time.Time // Clock
}

// NewInternalTokenIssuer creates an issuer signing as subject
func NewInternalTokenIssuer(secret, subject string) *InternalTokenIssuer {
	return &InternalTokenIssuer{secret: secret, subject: subject, now: time.Now}
}

// Issue returns a token with scope "internal" expiring five minutes from now
func (s *InternalTokenIssuer) Issue() (string, error) {
	if s.secret == "" {
		return "", domain.ErrMissingSecret
	}
	return utils.GenerateInternalJWT(s.subject, s.secret, s.now())
}

// InternalTokenVerifier checks service tokens from a trusted publisher
type InternalTokenVerifier struct {
	secret  string // Internal signing secret
	subject string // Trusted publisher name
}

// NewInternalTokenVerifier creates a verifier trusting tokens issued by subject
func NewInternalTokenVerifier(secret, subject string) *InternalTokenVerifier {
	return &InternalTokenVerifier{secret: secret, subject: subject}
}

// Verify validates token. It returns domain.ErrMissingSecret when no secret is configured
// and an error wrapping domain.ErrInvalidToken for any other failure.
func (v *InternalTokenVerifier) Verify(token string) (*utils.InternalClaims, error) {
	if v.secret == "" {
		return nil, domain.ErrMissingSecret
	}
	claims, err := utils.ParseInternalJWT(token, v.secret, v.subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	return claims, nil
}
