package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/authcore-io/authcore/internal/auth"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Users implements auth.UserStore over database/sql. Email uniqueness is
// enforced by the unique index on users.email, so concurrent registrations
// of the same address resolve to exactly one winner inside the database.
type Users struct {
	db      *sql.DB
	dialect string
}

// NewUsers creates a Users store for the given connection and dialect.
func NewUsers(db *sql.DB, dialect string) *Users {
	return &Users{db: db, dialect: dialect}
}

// Create inserts a new user and returns it with its assigned ID. A unique
// violation on email maps to auth.ErrDuplicateEmail.
func (s *Users) Create(ctx context.Context, email, hashedPassword string) (*auth.User, error) {
	now := time.Now().UTC()

	var id int64
	if s.dialect == DialectPostgres {
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO users (email, password, created_at) VALUES ($1, $2, $3) RETURNING id",
			email, hashedPassword, now,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, auth.ErrDuplicateEmail
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
	} else {
		result, err := s.db.ExecContext(ctx,
			"INSERT INTO users (email, password, created_at) VALUES (?, ?, ?)",
			email, hashedPassword, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, auth.ErrDuplicateEmail
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("read inserted user id: %w", err)
		}
	}

	return &auth.User{
		ID:        id,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
	}, nil
}

// GetByEmail retrieves a user by email, including the password hash.
func (s *Users) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	user := &auth.User{}
	err := s.db.QueryRowContext(ctx,
		rebind(s.dialect, "SELECT id, email, password, created_at FROM users WHERE email = ?"),
		email,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (s *Users) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	user := &auth.User{}
	err := s.db.QueryRowContext(ctx,
		rebind(s.dialect, "SELECT id, email, password, created_at FROM users WHERE id = ?"),
		id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return user, nil
}

// Tokens implements auth.TokenStore over database/sql. The token string is
// the primary key, so duplicate creation fails inside the database.
type Tokens struct {
	db      *sql.DB
	dialect string
}

// NewTokens creates a Tokens store for the given connection and dialect.
func NewTokens(db *sql.DB, dialect string) *Tokens {
	return &Tokens{db: db, dialect: dialect}
}

// Create inserts a new access token. A unique violation on the token string
// maps to auth.ErrTokenConflict.
func (s *Tokens) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		rebind(s.dialect, "INSERT INTO access_tokens (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)"),
		token, userID, expiresAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrTokenConflict
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetValid retrieves a live token. The expiration filter is part of the
// query, so an absent token and an expired one are indistinguishable: both
// return auth.ErrTokenNotFound.
func (s *Tokens) GetValid(ctx context.Context, token string, now time.Time) (*auth.AccessToken, error) {
	t := &auth.AccessToken{}
	err := s.db.QueryRowContext(ctx,
		rebind(s.dialect, "SELECT token, user_id, expires_at FROM access_tokens WHERE token = ? AND expires_at > ?"),
		token, now.UTC(),
	).Scan(&t.Token, &t.UserID, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select token: %w", err)
	}
	return t, nil
}

// DeleteExpired removes tokens whose expiration has passed. Expired tokens
// are unusable either way; this only reclaims space.
func (s *Tokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		rebind(s.dialect, "DELETE FROM access_tokens WHERE expires_at <= ?"),
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}

// rebind rewrites ? placeholders to $n for postgres; sqlite takes them as-is.
func rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure
// from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
