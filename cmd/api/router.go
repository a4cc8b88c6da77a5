package api

import (
	"net/http"

	"scapegis-backend/internal/auth/delivery"
	authUsecase "scapegis-backend/internal/auth/usecase"
	oauthDelivery "scapegis-backend/internal/oauth/delivery"
	oauthUsecase "scapegis-backend/internal/oauth/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, oauthUc oauthUsecase.OAuthUsecase, rateLimiter *delivery.RateLimiter) {
	authHandler := delivery.NewAuthHandler(authUc)
	oauthHandler := oauthDelivery.NewOAuthHandler(oauthUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			credentials := auth.Group("")
			credentials.Use(rateLimiter.Middleware())
			{
				credentials.POST("/register", authHandler.Register)
				credentials.POST("/login", authHandler.Login)
				credentials.POST("/resend-verification", authHandler.ResendVerification)
			}

			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/verify", authHandler.VerifyEmail)
			auth.GET("/status", delivery.OptionalAuthMiddleware(authUc), authHandler.Status)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.PUT("/profile", delivery.AuthMiddleware(authUc), authHandler.UpdateProfile)

			// OAuth initiation + provider callbacks
			auth.GET("/oauth/:provider", oauthHandler.Begin)
			auth.GET("/oauth/:provider/callback", oauthHandler.Callback)
		}
	}
}
