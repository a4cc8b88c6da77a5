package usecase

import (
	"errors"

	authdomain "scapegis-backend/internal/auth/domain"
	authdto "scapegis-backend/internal/auth/dto"
)

var (
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidLogin        = errors.New("invalid email or password")
	ErrWrongProvider       = errors.New("account uses a social login provider")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidVerification = errors.New("invalid verification token")
	ErrVerificationExpired = errors.New("verification token expired")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// AuthUsecase defines the interface for email/password auth business logic
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	VerifyEmail(verificationToken string) (*authdomain.UserProfile, error)
	ResendVerification(email string) error
	GetProfile(userID string) (*authdomain.UserProfile, error)
	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.UserProfile, error)
	ValidateToken(tokenString string) (*authdomain.UserProfile, error)
}
