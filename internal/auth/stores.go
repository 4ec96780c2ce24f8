package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already taken")
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenConflict  = errors.New("token already exists")
)

// UserStore defines the interface for user storage operations.
//
// Create must enforce email uniqueness atomically: of two concurrent Creates
// with the same email, exactly one succeeds and the other returns
// ErrDuplicateEmail. GetByEmail returns the stored password hash for internal
// verification use only; it must never be exposed outward.
type UserStore interface {
	Create(ctx context.Context, email, hashedPassword string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// TokenStore defines the interface for access token storage operations.
//
// Create must reject a duplicate token string with ErrTokenConflict. GetValid
// is a single read with an expiration filter: it returns ErrTokenNotFound
// when the token is absent or when expiresAt <= now, without distinguishing
// the two.
type TokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetValid(ctx context.Context, token string, now time.Time) (*AccessToken, error)
}
