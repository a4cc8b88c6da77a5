package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Adapters must never hang a callback on a stuck provider.
const requestTimeout = 10 * time.Second

// maxErrorBody caps how much of a provider error response is carried in an
// UpstreamError; enough for diagnostics, never a full token dump.
const maxErrorBody = 512

// UserInfo is the normalized identity a provider asserts about a user.
type UserInfo struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// Provider is one external identity service (Google, GitHub).
type Provider interface {
	Name() string
	// AuthCodeURL builds the provider's authorization URL carrying the
	// anti-forgery state value.
	AuthCodeURL(state string) string
	// ExchangeCode trades an authorization code for a provider access
	// token. Non-2xx responses come back as *UpstreamError.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchUserInfo loads the provider profile for an access token.
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// UpstreamError is a failed call to a provider endpoint: token exchange or
// user-info fetch returned non-2xx, malformed JSON, or timed out.
type UpstreamError struct {
	Provider   string
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed: status %d: %s", e.Provider, e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
