package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/user"
)

// MockTransactor runs the callback inline. Calls counts transactions begun;
// RolledBack counts callbacks that returned an error (which a real
// transactor would roll back).
type MockTransactor struct {
	mu         sync.Mutex
	Calls      int
	RolledBack int
	// BeginErr fails WithinTx before the callback runs.
	BeginErr error
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.BeginErr != nil {
		return m.BeginErr
	}
	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.RolledBack++
		m.mu.Unlock()
		return err
	}
	return nil
}

// PublishCall records one event handed to MockPublisher.
type PublishCall struct {
	Key       string
	EventType string
	Payload   any
}

// MockPublisher records published events.
type MockPublisher struct {
	mu           sync.Mutex
	PublishCalls []PublishCall
	PublishErr   error
}

func (m *MockPublisher) Publish(_ context.Context, key, eventType string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, PublishCall{Key: key, EventType: eventType, Payload: payload})
	return m.PublishErr
}

// MockCarrierRepository is an in-memory carrier.Repository.
type MockCarrierRepository struct {
	mu       sync.Mutex
	seq      int
	carriers map[string]*carrier.Carrier

	SaveCalls   []carrier.Carrier
	DeleteCalls []string
}

func NewMockCarrierRepository() *MockCarrierRepository {
	return &MockCarrierRepository{carriers: make(map[string]*carrier.Carrier)}
}

func (m *MockCarrierRepository) Seed(c *carrier.Carrier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.carriers[c.ID] = &cp
}

func (m *MockCarrierRepository) NextIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("carrier-%d", m.seq)
}

func (m *MockCarrierRepository) FindByID(_ context.Context, id string) (*carrier.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCarrierRepository) FindAll(_ context.Context) ([]*carrier.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*carrier.Carrier, 0, len(m.carriers))
	for _, c := range m.carriers {
		cp := *c
		all = append(all, &cp)
	}
	return all, nil
}

func (m *MockCarrierRepository) Save(_ context.Context, c *carrier.Carrier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, *c)
	cp := *c
	m.carriers[c.ID] = &cp
	return nil
}

func (m *MockCarrierRepository) Delete(_ context.Context, c *carrier.Carrier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, c.ID)
	delete(m.carriers, c.ID)
	return nil
}

// MockUserRepository is an in-memory user.Repository.
type MockUserRepository struct {
	mu    sync.Mutex
	seq   int
	users map[string]*user.User

	SaveCalls []user.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*user.User)}
}

func (m *MockUserRepository) Seed(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

func (m *MockUserRepository) Stored(id string) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (m *MockUserRepository) NextIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("user-%d", m.seq)
}

func (m *MockUserRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Save(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, *u)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

// MockTokenStore keeps reset tokens in memory, honoring single use.
type MockTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	TTLs   map[string]time.Duration
}

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		tokens: make(map[string]string),
		TTLs:   make(map[string]time.Duration),
	}
}

func (m *MockTokenStore) StoreResetToken(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenHash] = userID
	m.TTLs[tokenHash] = ttl
	return nil
}

func (m *MockTokenStore) ConsumeResetToken(_ context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[tokenHash]
	if !ok {
		return "", user.ErrResetTokenInvalid
	}
	delete(m.tokens, tokenHash)
	return userID, nil
}

// MockMailer records password-reset emails.
type MockMailer struct {
	mu    sync.Mutex
	Sent  []string // recipient addresses
	Token string   // last raw token handed out
	Err   error
}

func (m *MockMailer) SendPasswordReset(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, to)
	m.Token = token
	return nil
}
