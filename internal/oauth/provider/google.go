package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	authdomain "scapegis-backend/internal/auth/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google implements Provider for Google's OAuth2 endpoints.
type Google struct {
	cfg         *oauth2.Config
	client      *http.Client
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURI string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		client:      newHTTPClient(),
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) Name() string {
	return authdomain.ProviderGoogle
}

// AuthCodeURL forces refresh-token-capable consent via offline access and
// the consent prompt.
func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (g *Google) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", wrapOAuth2Error(g.Name(), "token exchange", err)
	}
	if tok.AccessToken == "" {
		return "", &UpstreamError{Provider: g.Name(), Op: "token exchange", Err: errors.New("empty access token")}
	}
	return tok.AccessToken, nil
}

func (g *Google) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	var userData struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &userData); err != nil {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", Err: err}
	}

	return &UserInfo{
		ProviderID: userData.ID,
		Email:      userData.Email,
		Name:       userData.Name,
		AvatarURL:  userData.Picture,
	}, nil
}

// wrapOAuth2Error keeps the provider's status and body when the oauth2
// package reports a non-2xx token response.
func wrapOAuth2Error(providerName, op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &UpstreamError{
			Provider:   providerName,
			Op:         op,
			StatusCode: status,
			Body:       truncateBody(retrieveErr.Body),
			Err:        err,
		}
	}
	return &UpstreamError{Provider: providerName, Op: op, Err: err}
}
