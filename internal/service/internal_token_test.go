package service

import (
	"testing"
	"time"
	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalTokenIssuer_Issue(t *testing.T) {
	issuer := NewInternalTokenIssuer("internal", "users-service")

	token, err := issuer.Issue()
	require.NoError(t, err)

	claims, err := NewInternalTokenVerifier("internal", "users-service").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, utils.InternalScope, claims.Scope)
	assert.Equal(t, "users-service", claims.Subject)
	assert.Equal(t, 5*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestInternalTokenIssuer_MissingSecret(t *testing.T) {
	_, err := NewInternalTokenIssuer("", "users-service").Issue()
	assert.ErrorIs(t, err, domain.ErrMissingSecret)
}

func TestInternalTokenVerifier_Rejects(t *testing.T) {
	issuer := NewInternalTokenIssuer("internal", "users-service")
	token, err := issuer.Issue()
	require.NoError(t, err)

	_, err = NewInternalTokenVerifier("", "users-service").Verify(token)
	assert.ErrorIs(t, err, domain.ErrMissingSecret)

	_, err = NewInternalTokenVerifier("wrong", "users-service").Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = NewInternalTokenVerifier("internal", "other-service").Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(-10 * time.Minute) }
	expired, err := issuer.Issue()
	require.NoError(t, err)
	_, err = NewInternalTokenVerifier("internal", "users-service").Verify(expired)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
