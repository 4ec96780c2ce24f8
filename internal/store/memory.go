package store

import (
	"context"
	"sync"
	"time"

	"github.com/authcore-io/authcore/internal/auth"
)

// MemoryUsers is a mutex-guarded in-memory auth.UserStore with the same
// uniqueness semantics as the SQL store. It backs the "memory" database
// profile and the API tests.
type MemoryUsers struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*auth.User
	byID    map[int64]*auth.User
}

// NewMemoryUsers creates an empty MemoryUsers store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byEmail: make(map[string]*auth.User),
		byID:    make(map[int64]*auth.User),
	}
}

// Create stores a new user. The check-and-insert runs under the lock, so
// concurrent Creates with the same email resolve to exactly one winner.
func (s *MemoryUsers) Create(ctx context.Context, email, hashedPassword string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, auth.ErrDuplicateEmail
	}

	s.nextID++
	user := &auth.User{
		ID:        s.nextID,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now().UTC(),
	}
	s.byEmail[email] = user
	s.byID[user.ID] = user

	copied := *user
	return &copied, nil
}

// GetByEmail retrieves a user by email.
func (s *MemoryUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByID retrieves a user by ID.
func (s *MemoryUsers) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// MemoryTokens is a mutex-guarded in-memory auth.TokenStore.
type MemoryTokens struct {
	mu     sync.Mutex
	tokens map[string]*auth.AccessToken
}

// NewMemoryTokens creates an empty MemoryTokens store.
func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{tokens: make(map[string]*auth.AccessToken)}
}

// Create stores a new token, rejecting duplicates.
func (s *MemoryTokens) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token]; exists {
		return auth.ErrTokenConflict
	}
	s.tokens[token] = &auth.AccessToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return nil
}

// GetValid retrieves a token that has not expired. Absent and expired tokens
// are indistinguishable: both return auth.ErrTokenNotFound.
func (s *MemoryTokens) GetValid(ctx context.Context, token string, now time.Time) (*auth.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[token]
	if !ok || t.Expired(now) {
		return nil, auth.ErrTokenNotFound
	}
	copied := *t
	return &copied, nil
}
