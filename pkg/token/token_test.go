package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 7*24*time.Hour)

	tokenString, err := svc.IssueAccessToken("user-1", "a@x.com", "google")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "google", claims.Provider)
	assert.Empty(t, claims.TokenType)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestRefreshTokenCarriesType(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 7*24*time.Hour)

	tokenString, err := svc.IssueRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Second, 7*24*time.Hour)

	tokenString, err := svc.IssueAccessToken("user-1", "a@x.com", "email")
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", 15*time.Minute, 7*24*time.Hour)
	verifier := NewService("secret-b", 15*time.Minute, 7*24*time.Hour)

	tokenString, err := issuer.IssueAccessToken("user-1", "a@x.com", "email")
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 7*24*time.Hour)

	// Well-formed, unexpired token without a sub claim.
	claims := jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewService("test-secret", 15*time.Minute, 7*24*time.Hour)

	_, err := svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
