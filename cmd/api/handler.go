package api

import (
	"scapegis-backend/internal/auth/delivery"
	authUsecase "scapegis-backend/internal/auth/usecase"
	oauthUsecase "scapegis-backend/internal/oauth/usecase"
	"scapegis-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	oauthUsecase oauthUsecase.OAuthUsecase
	config       *config.Config
	rateLimiter  *delivery.RateLimiter
}

func NewHandler(authUc authUsecase.AuthUsecase, oauthUc oauthUsecase.OAuthUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:  authUc,
		oauthUsecase: oauthUc,
		config:       cfg,
		rateLimiter:  delivery.NewRateLimiter(),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.oauthUsecase, h.rateLimiter)

	return r.Run(addr)
}
