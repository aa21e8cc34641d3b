// Package user implements identity: registration, authentication, and the
// password-reset flow. Token issuance (JWT) stays in the API layer; this
// package only deals with accounts and reset tokens.
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("email is required")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDeactivated    = errors.New("user account is deactivated")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository is the persistence collaborator for users. Lookups return
// (nil, nil) when nothing matches.
type Repository interface {
	NextIdentity() string
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

// TokenStore keeps hashed password-reset tokens with a TTL. Consume removes
// the token so it can be used only once.
type TokenStore interface {
	StoreResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, tokenHash string) (string, error)
}

// Mailer delivers the password-reset email carrying the raw token.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
