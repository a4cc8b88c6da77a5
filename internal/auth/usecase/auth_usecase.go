package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	authdomain "scapegis-backend/internal/auth/domain"
	authdto "scapegis-backend/internal/auth/dto"
	"scapegis-backend/internal/auth/repository"
	"scapegis-backend/pkg/mailer"
	"scapegis-backend/pkg/token"
)

const verificationExpiry = 24 * time.Hour

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	mail     mailer.Sender
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokens *token.Service, mail mailer.Sender) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
	}
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	verificationToken, err := newVerificationToken()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(verificationExpiry)

	user := &authdomain.UserProfile{
		Email:              req.Email,
		Password:           hashedPassword,
		FullName:           req.FullName,
		Provider:           authdomain.ProviderEmail,
		IsVerified:         false,
		VerificationToken:  verificationToken,
		VerificationExpiry: &expiry,
	}

	if err := u.userRepo.Create(user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	// A failed send must not lose the account; the user can request a
	// resend.
	if err := u.mail.SendVerificationEmail(user.Email, user.FullName, verificationToken); err != nil {
		log.Printf("[WARN] Failed to send verification email to %s: %v", user.Email, err)
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidLogin
	}

	if user.Provider != authdomain.ProviderEmail {
		return nil, ErrWrongProvider
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidLogin
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LoginCount++
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.tokens.Verify(refreshToken)
	if err != nil {
		return nil, token.ErrInvalidCredentials
	}
	if claims.TokenType != token.TypeRefresh {
		return nil, token.ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, token.ErrInvalidCredentials
	}

	return u.generateTokens(user)
}

func (u *authUsecase) VerifyEmail(verificationToken string) (*authdomain.UserProfile, error) {
	if verificationToken == "" {
		return nil, ErrInvalidVerification
	}

	user, err := u.userRepo.FindByVerificationToken(verificationToken)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidVerification
	}

	if user.VerificationExpiry == nil || user.VerificationExpiry.Before(time.Now()) {
		return nil, ErrVerificationExpired
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationExpiry = nil
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) ResendVerification(email string) error {
	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if user.Provider != authdomain.ProviderEmail {
		return ErrWrongProvider
	}

	verificationToken, err := newVerificationToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(verificationExpiry)
	user.VerificationToken = verificationToken
	user.VerificationExpiry = &expiry
	if err := u.userRepo.Update(user); err != nil {
		return err
	}

	return u.mail.SendVerificationEmail(user.Email, user.FullName, verificationToken)
}

func (u *authUsecase) GetProfile(userID string) (*authdomain.UserProfile, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *authUsecase) UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.UserProfile, error) {
	if req.Username == nil && req.FullName == nil && req.AvatarURL == nil {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.UserProfile, error) {
	claims, err := u.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	// Refresh tokens only buy new token pairs, never API access.
	if claims.TokenType == token.TypeRefresh {
		return nil, token.ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, token.ErrInvalidCredentials
	}

	return user, nil
}

func (u *authUsecase) generateTokens(user *authdomain.UserProfile) (*authdto.TokenResponse, error) {
	accessToken, err := u.tokens.IssueAccessToken(user.ID, user.Email, user.Provider)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(u.tokens.AccessExpiry().Seconds()),
		User:         user,
	}, nil
}

func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
