package main

import (
	"log"

	api "scapegis-backend/cmd/api"
	authdomain "scapegis-backend/internal/auth/domain"
	authRepo "scapegis-backend/internal/auth/repository"
	authUsecase "scapegis-backend/internal/auth/usecase"
	"scapegis-backend/internal/oauth/provider"
	oauthUsecase "scapegis-backend/internal/oauth/usecase"
	"scapegis-backend/pkg/config"
	"scapegis-backend/pkg/database"
	"scapegis-backend/pkg/mailer"
	"scapegis-backend/pkg/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.UserProfile{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)

	// Token service and mailer
	tokenService := token.NewService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	mailSender := mailer.NewSMTPSender(cfg)

	// OAuth providers
	var providers []provider.Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, provider.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI))
	} else {
		log.Printf("[WARN] Google OAuth not configured - missing client_id or client_secret")
	}
	if cfg.GithubClientID != "" && cfg.GithubClientSecret != "" {
		providers = append(providers, provider.NewGitHub(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubRedirectURI))
	} else {
		log.Printf("[WARN] GitHub OAuth not configured - missing client_id or client_secret")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, tokenService, mailSender)
	oauthUsecaseInstance := oauthUsecase.NewOAuthUsecase(providers, userRepo, tokenService, cfg.FrontendURL)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, oauthUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
