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

func newTestGoogle(srv *httptest.Server) *Google {
	g := NewGoogle("client-id", "client-secret", "http://localhost/callback")
	g.cfg.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}
	g.userInfoURL = srv.URL + "/userinfo"
	g.client = srv.Client()
	return g
}

func TestGoogleAuthCodeURL(t *testing.T) {
	g := NewGoogle("client-id", "client-secret", "http://localhost/callback")

	url := g.AuthCodeURL("state123")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state123")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "scope=openid+email+profile")
}

func TestGoogleExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc123", r.FormValue("code"))
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok1","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	g := newTestGoogle(srv)
	accessToken, err := g.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "tok1", accessToken)
}

func TestGoogleExchangeCodeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	g := newTestGoogle(srv)
	_, err := g.ExchangeCode(context.Background(), "abc123")
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, "google", upstreamErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Body, "invalid_client")
}

func TestGoogleFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g1","email":"a@x.com","name":"A","picture":"https://p/a.png"}`))
	}))
	defer srv.Close()

	g := newTestGoogle(srv)
	info, err := g.FetchUserInfo(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "g1", info.ProviderID)
	assert.Equal(t, "a@x.com", info.Email)
	assert.Equal(t, "A", info.Name)
	assert.Equal(t, "https://p/a.png", info.AvatarURL)
}

func TestGoogleFetchUserInfoNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"insufficient scope"}}`))
	}))
	defer srv.Close()

	g := newTestGoogle(srv)
	_, err := g.FetchUserInfo(context.Background(), "tok1")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Body, "insufficient scope")
}
