package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/catalog-service/internal/auth"
	"github.com/example/catalog-service/internal/clock"
	"github.com/example/catalog-service/internal/domain/user"
	"github.com/example/catalog-service/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	service *user.Service
	repo    *mocks.MockUserRepository
	tokens  *mocks.MockTokenStore
	mailer  *mocks.MockMailer
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:   mocks.NewMockUserRepository(),
		tokens: mocks.NewMockTokenStore(),
		mailer: &mocks.MockMailer{},
	}
	f.service = user.NewService(f.repo, f.tokens, f.mailer,
		clock.Fixed{Instant: testNow}, func() string { return "fixed-reset-token" })
	return f
}

func seedUser(f *serviceFixture, id, email, password string) *user.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &user.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         "Seeded User",
		Role:         user.RoleCustomer,
		IsActive:     true,
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	}
	f.repo.Seed(u)
	return u
}

// ============================================
// Registration Tests
// ============================================

func TestService_Register_Success(t *testing.T) {
	f := newServiceFixture()

	u, err := f.service.Register(context.Background(), "Alice@Example.com", "password123", "Alice")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, user.RoleCustomer, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", u.PasswordHash))
	assert.Equal(t, testNow, u.CreatedAt)
	assert.NotNil(t, f.repo.Stored(u.ID))
}

func TestService_Register_EmailTaken(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-existing", "alice@example.com", "password123")

	u, err := f.service.Register(context.Background(), "ALICE@example.com", "otherpassword", "Alice")

	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.Nil(t, u)
}

func TestService_Register_Validation(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Register(context.Background(), "", "password123", "Alice")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)

	_, err = f.service.Register(context.Background(), "alice@example.com", "password123", "")
	assert.ErrorIs(t, err, user.ErrInvalidName)

	_, err = f.service.Register(context.Background(), "alice@example.com", "short", "Alice")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestService_RegisterWithRole_Admin(t *testing.T) {
	f := newServiceFixture()

	u, err := f.service.RegisterWithRole(context.Background(), "admin@example.com", "password123", "Admin", user.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
}

// ============================================
// Authentication Tests
// ============================================

func TestService_Authenticate_Success(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-1", "alice@example.com", "password123")

	u, err := f.service.Authenticate(context.Background(), "alice@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-1", "alice@example.com", "password123")

	u, err := f.service.Authenticate(context.Background(), "alice@example.com", "wrongpassword")

	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.Nil(t, u)
}

func TestService_Authenticate_UnknownEmail(t *testing.T) {
	f := newServiceFixture()

	u, err := f.service.Authenticate(context.Background(), "nobody@example.com", "password123")

	// Same error as a wrong password.
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.Nil(t, u)
}

func TestService_Authenticate_Deactivated(t *testing.T) {
	f := newServiceFixture()
	u := seedUser(f, "user-1", "alice@example.com", "password123")
	u.IsActive = false
	f.repo.Seed(u)

	got, err := f.service.Authenticate(context.Background(), "alice@example.com", "password123")

	assert.ErrorIs(t, err, user.ErrUserDeactivated)
	assert.Nil(t, got)
}

// ============================================
// Password Reset Tests
// ============================================

func TestService_RequestPasswordReset_MailsRawToken(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-1", "alice@example.com", "password123")

	err := f.service.RequestPasswordReset(context.Background(), "alice@example.com")

	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, f.mailer.Sent)
	assert.Equal(t, "fixed-reset-token", f.mailer.Token)
	// The raw token is never stored, only its hash with a TTL.
	for hash, ttl := range f.tokens.TTLs {
		assert.NotEqual(t, "fixed-reset-token", hash)
		assert.Equal(t, time.Hour, ttl)
	}
	require.Len(t, f.tokens.TTLs, 1)
}

func TestService_RequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	f := newServiceFixture()

	err := f.service.RequestPasswordReset(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, f.mailer.Sent)
	assert.Empty(t, f.tokens.TTLs)
}

func TestService_ResetPassword_RoundTrip(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-1", "alice@example.com", "password123")
	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "alice@example.com"))

	err := f.service.ResetPassword(context.Background(), f.mailer.Token, "newpassword456")

	require.NoError(t, err)
	u, authErr := f.service.Authenticate(context.Background(), "alice@example.com", "newpassword456")
	require.NoError(t, authErr)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, testNow, f.repo.Stored("user-1").UpdatedAt)
}

func TestService_ResetPassword_TokenIsSingleUse(t *testing.T) {
	f := newServiceFixture()
	seedUser(f, "user-1", "alice@example.com", "password123")
	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "alice@example.com"))
	require.NoError(t, f.service.ResetPassword(context.Background(), f.mailer.Token, "newpassword456"))

	err := f.service.ResetPassword(context.Background(), f.mailer.Token, "anotherpassword")

	assert.ErrorIs(t, err, user.ErrResetTokenInvalid)
}

func TestService_ResetPassword_InvalidToken(t *testing.T) {
	f := newServiceFixture()

	err := f.service.ResetPassword(context.Background(), "made-up-token", "newpassword456")

	assert.ErrorIs(t, err, user.ErrResetTokenInvalid)
}
