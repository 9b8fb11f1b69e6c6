package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "promptline",
	})
	require.NoError(t, err)
	return v
}

func TestJWTValidator_IssueAndValidate(t *testing.T) {
	v := newTestValidator(t)

	token, err := v.IssueToken("user-123", "dev@example.com", []string{"editor"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, []string{"editor"}, claims.Roles)
}

func TestJWTValidator_ExpiredToken(t *testing.T) {
	v := newTestValidator(t)

	token, err := v.IssueToken("user-123", "", nil, -time.Minute)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTValidator_WrongSecret(t *testing.T) {
	v := newTestValidator(t)
	other, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "other-secret",
		Issuer:        "promptline",
	})
	require.NoError(t, err)

	token, err := other.IssueToken("user-123", "", nil, time.Hour)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestJWTValidator_WrongIssuer(t *testing.T) {
	v := newTestValidator(t)
	foreign, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     "test-secret",
		Issuer:        "someone-else",
	})
	require.NoError(t, err)

	token, err := foreign.IssueToken("user-123", "", nil, time.Hour)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestJWTValidator_Garbage(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)
}
