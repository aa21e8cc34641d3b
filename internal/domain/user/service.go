package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/example/catalog-service/internal/auth"
	"github.com/example/catalog-service/internal/clock"
)

// resetTokenTTL bounds how long an emailed reset link stays usable.
const resetTokenTTL = time.Hour

// Service handles user domain operations.
type Service struct {
	repo    Repository
	tokens  TokenStore
	mailer  Mailer
	clock   clock.Clock
	tokenFn func() string
}

// NewService creates a new user service. tokenFn produces opaque reset
// tokens and is injectable for tests.
func NewService(repo Repository, tokens TokenStore, mailer Mailer, clk clock.Clock, tokenFn func() string) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		clock:   clk,
		tokenFn: tokenFn,
	}
}

// Register creates a new customer account.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	return s.RegisterWithRole(ctx, email, password, name, RoleCustomer)
}

// RegisterWithRole creates a new account with a specific role.
func (s *Service) RegisterWithRole(ctx context.Context, email, password, name, role string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	u := &User{
		ID:           s.repo.NextIdentity(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the account. Lookup misses
// and bad passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserDeactivated
	}
	return u, nil
}

// GetByID loads an account by id.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// RequestPasswordReset issues a reset token for the account behind email and
// mails it out. Unknown addresses succeed silently so the endpoint cannot be
// used to probe for registered emails.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return nil
	}

	token := s.tokenFn()
	if err := s.tokens.StoreResetToken(ctx, hashToken(token), u.ID, resetTokenTTL); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(u.Email, token)
}

// ResetPassword exchanges a valid reset token for a new password. The token
// is single-use; it is consumed before the password changes.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.ConsumeResetToken(ctx, hashToken(token))
	if err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = s.clock.Now()
	return s.repo.Save(ctx, u)
}

// hashToken creates a SHA-256 hash of the token for secure storage.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
