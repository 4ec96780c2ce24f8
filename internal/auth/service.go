package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrInvalidToken  = errors.New("invalid token")
	ErrStorage       = errors.New("storage failure")
)

// DefaultTokenTTL is how long issued tokens live unless configured otherwise.
const DefaultTokenTTL = 24 * time.Hour

// Config holds the service configuration, fixed at construction time.
type Config struct {
	TokenTTL time.Duration
}

// Service orchestrates registration, credential authentication, token
// issuance and token-based identity resolution. It holds no mutable state
// beyond read-only configuration; all durable state lives in the stores.
type Service struct {
	users     UserStore
	tokens    TokenStore
	hasher    *Hasher
	generator TokenGenerator
	tokenTTL  time.Duration
	dummyHash string
}

// NewService creates a Service. A zero TokenTTL selects DefaultTokenTTL.
func NewService(users UserStore, tokens TokenStore, hasher *Hasher, generator TokenGenerator, cfg Config) *Service {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	// Pre-hash a throwaway value so Authenticate can burn a full
	// verification when the account does not exist.
	dummy, err := hasher.Hash("authcore-timing-pad")
	if err != nil {
		dummy = ""
	}

	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		generator: generator,
		tokenTTL:  ttl,
		dummyHash: dummy,
	}
}

// Register creates a new user with a hashed password. The plaintext is
// discarded as soon as it is hashed. A uniqueness conflict on email fails
// with ErrDuplicateUser; any other store failure surfaces as ErrStorage.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, hashed)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStorage, err)
	}

	return user, nil
}

// Authenticate verifies the user's credentials. An unknown email and a wrong
// password both yield (nil, nil): a failed login is an expected outcome, not
// an error, and the two causes must stay indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a verification anyway so response timing does
			// not reveal whether the account exists.
			s.hasher.Verify(password, s.dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStorage, err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, nil
	}

	return user, nil
}

// IssueToken mints an opaque bearer token for the user, expiring TokenTTL
// from now. A store-level token collision is treated as transient and
// retried exactly once with a fresh token before surfacing ErrStorage.
func (s *Service) IssueToken(ctx context.Context, user *User) (*AccessToken, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	for attempt := 0; attempt < 2; attempt++ {
		token, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}

		err = s.tokens.Create(ctx, user.ID, token, expiresAt)
		if err == nil {
			return &AccessToken{UserID: user.ID, Token: token, ExpiresAt: expiresAt}, nil
		}
		if !errors.Is(err, ErrTokenConflict) {
			return nil, fmt.Errorf("%w: create token: %v", ErrStorage, err)
		}
	}

	return nil, fmt.Errorf("%w: token collision persisted after retry", ErrStorage)
}

// ResolveUser maps a bearer token to its owning user. Never-issued, expired
// and malformed tokens all fail with ErrInvalidToken; the caller cannot tell
// them apart.
func (s *Service) ResolveUser(ctx context.Context, token string) (*User, error) {
	t, err := s.tokens.GetValid(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: find token: %v", ErrStorage, err)
	}

	user, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// A live token pointing at a missing user is a store
			// inconsistency, not a bad credential.
			return nil, fmt.Errorf("%w: token references missing user %d", ErrStorage, t.UserID)
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStorage, err)
	}

	return user, nil
}
