package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	authdomain "scapegis-backend/internal/auth/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHub implements Provider for GitHub's OAuth2 endpoints.
type GitHub struct {
	cfg       *oauth2.Config
	client    *http.Client
	userURL   string
	emailsURL string
}

func NewGitHub(clientID, clientSecret, redirectURI string) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		client:    newHTTPClient(),
		userURL:   githubUserURL,
		emailsURL: githubEmailsURL,
	}
}

func (g *GitHub) Name() string {
	return authdomain.ProviderGithub
}

func (g *GitHub) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("allow_signup", "true"))
}

func (g *GitHub) ExchangeCode(ctx context.Context, code string) (string, error) {
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

// FetchUserInfo loads the GitHub profile. Accounts with a private email
// return email=null on /user, so a second call to /user/emails picks the
// entry flagged primary; without any primary entry the email stays empty
// and reconciliation rejects the login.
func (g *GitHub) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	body, err := g.get(ctx, g.userURL, accessToken)
	if err != nil {
		return nil, err
	}

	var userData struct {
		ID        int64   `json:"id"`
		Email     *string `json:"email"`
		Name      string  `json:"name"`
		Login     string  `json:"login"`
		AvatarURL string  `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &userData); err != nil {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", Err: err}
	}

	email := ""
	if userData.Email != nil {
		email = *userData.Email
	}
	if email == "" {
		email, err = g.fetchPrimaryEmail(ctx, accessToken)
		if err != nil {
			return nil, err
		}
	}

	name := userData.Name
	if name == "" {
		name = userData.Login
	}

	return &UserInfo{
		ProviderID: strconv.FormatInt(userData.ID, 10),
		Email:      email,
		Name:       name,
		AvatarURL:  userData.AvatarURL,
	}, nil
}

func (g *GitHub) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	body, err := g.get(ctx, g.emailsURL, accessToken)
	if err != nil {
		return "", err
	}

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", &UpstreamError{Provider: g.Name(), Op: "user emails", Err: err}
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return "", nil
}

func (g *GitHub) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: g.Name(), Op: "user info", StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}
