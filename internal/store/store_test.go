package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/authcore-io/authcore/internal/auth"
	"github.com/authcore-io/authcore/internal/config"
	"github.com/authcore-io/authcore/internal/database"
	"github.com/authcore-io/authcore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Database.MaxRetries = 1
	cfg.Database.RetryDelay = 0

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUsersCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	ctx := context.Background()

	created, err := users.Create(ctx, "a@x.com", "hashed-password")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)

	byEmail, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hashed-password", byEmail.Password)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestUsersDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	ctx := context.Background()

	_, err := users.Create(ctx, "a@x.com", "hash-one")
	require.NoError(t, err)

	_, err = users.Create(ctx, "a@x.com", "hash-two")
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestUsersNotFound(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	ctx := context.Background()

	_, err := users.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = users.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestTokensCreateAndGetValid(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	tokens := store.NewTokens(db, store.DialectSQLite)
	ctx := context.Background()

	user, err := users.Create(ctx, "a@x.com", "hash")
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, tokens.Create(ctx, user.ID, "tok-live", expiresAt))

	got, err := tokens.GetValid(ctx, "tok-live", time.Now())
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "tok-live", got.Token)
	assert.WithinDuration(t, expiresAt, got.ExpiresAt, time.Second)
}

func TestTokensConflict(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	tokens := store.NewTokens(db, store.DialectSQLite)
	ctx := context.Background()

	user, err := users.Create(ctx, "a@x.com", "hash")
	require.NoError(t, err)

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, tokens.Create(ctx, user.ID, "tok-dup", expiresAt))

	err = tokens.Create(ctx, user.ID, "tok-dup", expiresAt)
	assert.ErrorIs(t, err, auth.ErrTokenConflict)
}

func TestTokensExpirationFilter(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	tokens := store.NewTokens(db, store.DialectSQLite)
	ctx := context.Background()

	user, err := users.Create(ctx, "a@x.com", "hash")
	require.NoError(t, err)

	require.NoError(t, tokens.Create(ctx, user.ID, "tok-expired", time.Now().Add(-time.Hour)))

	// Expired and absent tokens are the same from the caller's view.
	_, err = tokens.GetValid(ctx, "tok-expired", time.Now())
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)

	_, err = tokens.GetValid(ctx, "tok-never-issued", time.Now())
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestTokensDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	users := store.NewUsers(db, store.DialectSQLite)
	tokens := store.NewTokens(db, store.DialectSQLite)
	ctx := context.Background()

	user, err := users.Create(ctx, "a@x.com", "hash")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tokens.Create(ctx, user.ID, "tok-old", now.Add(-time.Hour)))
	require.NoError(t, tokens.Create(ctx, user.ID, "tok-new", now.Add(time.Hour)))

	deleted, err := tokens.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = tokens.GetValid(ctx, "tok-new", now)
	assert.NoError(t, err)
}
