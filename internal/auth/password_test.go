package auth_test

import (
	"testing"

	"github.com/authcore-io/authcore/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, h.Verify("secret123", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("", hash))
}

func TestHasherSaltUniqueness(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	// Fresh salt per call: same plaintext, different hash strings.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
}

func TestHasherMalformedHash(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("secret123", ""))
	assert.False(t, h.Verify("secret123", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("secret123", "$2a$banana"))
}

func TestHasherSelfContainedHash(t *testing.T) {
	// The cost and salt live inside the hash string, so a Hasher with a
	// different configured cost still verifies it.
	low := auth.NewHasher(bcrypt.MinCost)
	high := auth.NewHasher(bcrypt.MinCost + 2)

	hash, err := low.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, high.Verify("secret123", hash))
}

func TestNewHasherCostFallback(t *testing.T) {
	h := auth.NewHasher(-1)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
