package delivery

import (
	"net/http"

	"scapegis-backend/internal/oauth/usecase"

	"github.com/gin-gonic/gin"
)

// stateCookie carries the anti-forgery state between the initiation
// redirect and the provider callback.
const (
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 600 // seconds
)

type OAuthHandler struct {
	oauthUsecase usecase.OAuthUsecase
}

func NewOAuthHandler(oauthUsecase usecase.OAuthUsecase) *OAuthHandler {
	return &OAuthHandler{
		oauthUsecase: oauthUsecase,
	}
}

// Begin redirects the client to the provider's authorization URL.
func (h *OAuthHandler) Begin(c *gin.Context) {
	providerName := c.Param("provider")

	authURL, state, err := h.oauthUsecase.AuthURL(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported OAuth provider: " + providerName})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, authURL)
}

// Callback terminates the provider handshake. The response is always a
// redirect to the front-end; failures carry a reason code instead of a raw
// error.
func (h *OAuthHandler) Callback(c *gin.Context) {
	expectedState, _ := c.Cookie(stateCookie)
	// The state is single-use.
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	result := h.oauthUsecase.HandleCallback(
		c.Request.Context(),
		c.Param("provider"),
		c.Query("code"),
		c.Query("state"),
		expectedState,
		c.Query("error"),
	)

	c.Redirect(http.StatusFound, result.RedirectURL)
}
