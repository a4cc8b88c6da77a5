package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for every verification failure. Callers
// must not be able to tell a bad signature from an expired or malformed
// token.
var ErrInvalidCredentials = errors.New("could not validate credentials")

const TypeRefresh = "refresh"

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID    string
	Email     string
	Provider  string
	TokenType string
	ExpiresAt time.Time
}

// Service mints and verifies the application's bearer tokens. Tokens are
// stateless HS256 JWTs; nothing is persisted, so a token stays valid until
// its expiry.
type Service struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewService(secret string, accessExpiry, refreshExpiry time.Duration) *Service {
	return &Service{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccessToken signs a short-lived access token for the given user.
func (s *Service) IssueAccessToken(userID, email, provider string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"email":    email,
		"provider": provider,
		"exp":      now.Add(s.accessExpiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueRefreshToken signs a long-lived refresh token. The type claim keeps
// it from being accepted where an access token is expected.
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"type":     TypeRefresh,
		"token_id": uuid.New().String(),
		"exp":      now.Add(s.refreshExpiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string. It returns the decoded claims
// or ErrInvalidCredentials; the subject claim is mandatory.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidCredentials
	}

	claims := &Claims{UserID: sub}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if provider, ok := mapClaims["provider"].(string); ok {
		claims.Provider = provider
	}
	if tokenType, ok := mapClaims["type"].(string); ok {
		claims.TokenType = tokenType
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}

// AccessExpiry reports the configured access-token lifetime.
func (s *Service) AccessExpiry() time.Duration {
	return s.accessExpiry
}
