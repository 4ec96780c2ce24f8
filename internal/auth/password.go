package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies salted bcrypt password hashes. The hash string
// is self-contained: algorithm, cost and salt are embedded in it, so
// verification needs no state beyond the hash itself.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes the plaintext with a fresh random salt. Two calls with the same
// plaintext produce different hash strings.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks plaintext against a hash produced by Hash. A malformed hash
// and a mismatch both return false; a failed verification is a normal
// outcome, not an error. The underlying comparison is constant-time with
// respect to the secret.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
