package repository

import (
	"errors"

	authdomain "scapegis-backend/internal/auth/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateEmail marks an insert that violated the unique-email
// constraint. Callers treat it as "someone else already created this row"
// and retry as an update.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository is the user-profile store contract: point lookups, insert
// with uniqueness enforcement on email, and field-level update by id.
type UserRepository interface {
	Create(user *authdomain.UserProfile) error
	FindByID(id string) (*authdomain.UserProfile, error)
	FindByEmail(email string) (*authdomain.UserProfile, error)
	FindByProvider(provider, providerID string) (*authdomain.UserProfile, error)
	FindByVerificationToken(verificationToken string) (*authdomain.UserProfile, error)
	Update(user *authdomain.UserProfile) error
}

// IsDuplicate reports whether err is a uniqueness violation, either our own
// sentinel, GORM's translated error, or a raw Postgres 23505.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
