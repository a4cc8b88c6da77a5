package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	authdomain "scapegis-backend/internal/auth/domain"
	"scapegis-backend/internal/auth/repository"
	"scapegis-backend/internal/oauth/provider"
	"scapegis-backend/pkg/token"
)

// Redirect reason codes carried to the front-end error page.
const (
	ReasonNoCode              = "no_code"
	ReasonInvalidState        = "invalid_state"
	ReasonUnsupportedProvider = "unsupported_provider"
	ReasonExchangeFailed      = "exchange_failed"
	ReasonUserInfoFailed      = "userinfo_failed"
	ReasonEmailMissing        = "email_missing"
	ReasonReconcileFailed     = "reconcile_failed"
	ReasonServerError         = "server_error"
)

var ErrUnsupportedProvider = errors.New("unsupported OAuth provider")

// CallbackResult is the terminal state of one callback: always a redirect,
// never a raw error to the HTTP layer.
type CallbackResult struct {
	RedirectURL string
	UserID      string
	IsNewUser   bool
	ErrReason   string // empty on success
}

// OAuthUsecase converts an external authorization code into a local
// authenticated session.
type OAuthUsecase interface {
	// AuthURL builds the provider authorization URL with a fresh
	// anti-forgery state; the caller must hold on to the state and hand
	// it back on callback.
	AuthURL(providerName string) (redirectURL, state string, err error)
	HandleCallback(ctx context.Context, providerName, code, state, expectedState, errParam string) *CallbackResult
}

type oauthUsecase struct {
	providers   map[string]provider.Provider
	userRepo    repository.UserRepository
	tokens      *token.Service
	frontendURL string
}

func NewOAuthUsecase(providers []provider.Provider, userRepo repository.UserRepository, tokens *token.Service, frontendURL string) OAuthUsecase {
	byName := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &oauthUsecase{
		providers:   byName,
		userRepo:    userRepo,
		tokens:      tokens,
		frontendURL: frontendURL,
	}
}

func (u *oauthUsecase) AuthURL(providerName string) (string, string, error) {
	p, ok := u.providers[providerName]
	if !ok {
		return "", "", ErrUnsupportedProvider
	}

	state, err := newState()
	if err != nil {
		return "", "", err
	}
	return p.AuthCodeURL(state), state, nil
}

// HandleCallback runs the callback state machine. Steps are strictly
// sequential: state check, code exchange, user-info fetch, reconciliation,
// token issuance. Any failure terminates in an error redirect.
func (u *oauthUsecase) HandleCallback(ctx context.Context, providerName, code, state, expectedState, errParam string) *CallbackResult {
	if errParam != "" {
		// User declined consent or the provider refused; echo the
		// provider's reason.
		return u.errorResult(errParam)
	}
	if code == "" {
		return u.errorResult(ReasonNoCode)
	}
	if expectedState == "" || state != expectedState {
		log.Printf("[WARN] OAuth callback state mismatch for provider %s", providerName)
		return u.errorResult(ReasonInvalidState)
	}

	p, ok := u.providers[providerName]
	if !ok {
		return u.errorResult(ReasonUnsupportedProvider)
	}

	accessToken, err := p.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("[ERROR] %s code exchange failed: %v", providerName, err)
		return u.errorResult(ReasonExchangeFailed)
	}

	info, err := p.FetchUserInfo(ctx, accessToken)
	if err != nil {
		log.Printf("[ERROR] %s user info fetch failed: %v", providerName, err)
		return u.errorResult(ReasonUserInfoFailed)
	}
	if info.Email == "" {
		// Email is the reconciliation key; never fabricate one.
		return u.errorResult(ReasonEmailMissing)
	}

	user, isNew, err := u.reconcile(info, providerName)
	if err != nil {
		log.Printf("[ERROR] %s reconciliation failed for %s: %v", providerName, info.Email, err)
		return u.errorResult(ReasonReconcileFailed)
	}

	appToken, err := u.tokens.IssueAccessToken(user.ID, user.Email, user.Provider)
	if err == nil {
		var refreshToken string
		refreshToken, err = u.tokens.IssueRefreshToken(user.ID)
		if err == nil {
			return u.successResult(user, appToken, refreshToken, isNew)
		}
	}
	// The profile upsert stands; only the session is lost.
	log.Printf("[ERROR] token issuance failed after reconciling user %s: %v", user.ID, err)
	return u.errorResult(ReasonServerError)
}

// reconcile creates or updates the profile keyed by email. Provider data
// wins over stale local data, but a present local value is kept when the
// provider supplies nothing. An insert losing the unique-email race is
// retried once as an update.
func (u *oauthUsecase) reconcile(info *provider.UserInfo, providerName string) (*authdomain.UserProfile, bool, error) {
	existing, err := u.userRepo.FindByEmail(info.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := u.applyProviderData(existing, info, providerName); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	now := time.Now()
	user := &authdomain.UserProfile{
		Email:       info.Email,
		FullName:    info.Name,
		AvatarURL:   info.AvatarURL,
		Provider:    providerName,
		ProviderID:  info.ProviderID,
		IsVerified:  true,
		LastLoginAt: &now,
		LoginCount:  1,
	}

	err = u.userRepo.Create(user)
	if err == nil {
		return user, true, nil
	}
	if !repository.IsDuplicate(err) {
		return nil, false, err
	}

	// A concurrent callback for the same identity won the insert; finish
	// as an update.
	existing, lookupErr := u.userRepo.FindByEmail(info.Email)
	if lookupErr != nil {
		return nil, false, lookupErr
	}
	if existing == nil {
		return nil, false, err
	}
	if err := u.applyProviderData(existing, info, providerName); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (u *oauthUsecase) applyProviderData(user *authdomain.UserProfile, info *provider.UserInfo, providerName string) error {
	if info.Name != "" {
		user.FullName = info.Name
	}
	if info.AvatarURL != "" {
		user.AvatarURL = info.AvatarURL
	}
	user.Provider = providerName
	user.ProviderID = info.ProviderID
	user.IsVerified = true

	now := time.Now()
	user.LastLoginAt = &now
	user.LoginCount++

	return u.userRepo.Update(user)
}

func (u *oauthUsecase) successResult(user *authdomain.UserProfile, accessToken, refreshToken string, isNew bool) *CallbackResult {
	params := url.Values{}
	params.Set("token", accessToken)
	params.Set("refresh_token", refreshToken)
	params.Set("user_id", user.ID)
	params.Set("email", user.Email)
	params.Set("is_new_user", fmt.Sprintf("%t", isNew))
	params.Set("success", "true")

	return &CallbackResult{
		RedirectURL: fmt.Sprintf("%s/auth/success?%s", u.frontendURL, params.Encode()),
		UserID:      user.ID,
		IsNewUser:   isNew,
	}
}

func (u *oauthUsecase) errorResult(reason string) *CallbackResult {
	return &CallbackResult{
		RedirectURL: fmt.Sprintf("%s/auth/error?error=%s", u.frontendURL, url.QueryEscape(reason)),
		ErrReason:   reason,
	}
}

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
