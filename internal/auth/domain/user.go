package domain

import "time"

// Supported authentication providers.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// UserProfile is one authenticated identity. Exactly one profile exists per
// email; provider_id identifies the account at the external provider.
type UserProfile struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:uuid"`
	Email              string     `json:"email" gorm:"uniqueIndex;not null"`
	Username           string     `json:"username,omitempty" gorm:"size:50"`
	FullName           string     `json:"full_name,omitempty" gorm:"size:100"`
	AvatarURL          string     `json:"avatar_url,omitempty"`
	Password           string     `json:"-"` // bcrypt hash, empty for OAuth accounts
	Provider           string     `json:"provider" gorm:"size:20;index:idx_user_profiles_provider"`
	ProviderID         string     `json:"provider_id,omitempty" gorm:"index:idx_user_profiles_provider"`
	IsVerified         bool       `json:"is_verified"`
	VerificationToken  string     `json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	LoginCount         int        `json:"login_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
