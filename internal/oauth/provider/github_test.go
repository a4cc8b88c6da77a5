package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestGitHub(srv *httptest.Server) *GitHub {
	g := NewGitHub("client-id", "client-secret", "http://localhost/callback")
	g.cfg.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/login/oauth/authorize",
		TokenURL: srv.URL + "/login/oauth/access_token",
	}
	g.userURL = srv.URL + "/user"
	g.emailsURL = srv.URL + "/user/emails"
	g.client = srv.Client()
	return g
}

func TestGitHubAuthCodeURL(t *testing.T) {
	g := NewGitHub("client-id", "client-secret", "http://localhost/callback")

	url := g.AuthCodeURL("state123")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state123")
	assert.Contains(t, url, "allow_signup=true")
	assert.Contains(t, url, "scope=user%3Aemail")
}

func TestGitHubExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login/oauth/access_token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer"}`))
	}))
	defer srv.Close()

	g := newTestGitHub(srv)
	accessToken, err := g.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "gh-token", accessToken)
}

func TestGitHubExchangeCodeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad_verification_code"}`))
	}))
	defer srv.Close()

	g := newTestGitHub(srv)
	_, err := g.ExchangeCode(context.Background(), "expired-code")
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, "github", upstreamErr.Provider)
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Body, "bad_verification_code")
}

func TestGitHubFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token gh-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"email":"dev@x.com","name":"Dev","login":"dev42","avatar_url":"https://a/42.png"}`))
	}))
	defer srv.Close()

	g := newTestGitHub(srv)
	info, err := g.FetchUserInfo(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.Equal(t, "42", info.ProviderID)
	assert.Equal(t, "dev@x.com", info.Email)
	assert.Equal(t, "Dev", info.Name)
	assert.Equal(t, "https://a/42.png", info.AvatarURL)
}

func TestGitHubFetchUserInfoPrimaryEmailFallback(t *testing.T) {
	var emailsCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			w.Write([]byte(`{"id":42,"email":null,"name":"","login":"dev42","avatar_url":""}`))
		case "/user/emails":
			emailsCalled = true
			w.Write([]byte(`[{"email":"old@x.com","primary":false},{"email":"primary@x.com","primary":true}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := newTestGitHub(srv)
	info, err := g.FetchUserInfo(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.True(t, emailsCalled)
	assert.Equal(t, "primary@x.com", info.Email)
	// Display name falls back to the login when the profile name is empty.
	assert.Equal(t, "dev42", info.Name)
}

func TestGitHubFetchUserInfoNoPrimaryEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			w.Write([]byte(`{"id":42,"email":null,"login":"dev42"}`))
		case "/user/emails":
			w.Write([]byte(`[{"email":"secondary@x.com","primary":false}]`))
		}
	}))
	defer srv.Close()

	g := newTestGitHub(srv)
	info, err := g.FetchUserInfo(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.Empty(t, info.Email)
}
