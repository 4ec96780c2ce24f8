package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the raw entropy per token: 32 bytes = 256 bits.
const tokenBytes = 32

// TokenGenerator produces opaque token strings.
type TokenGenerator interface {
	Generate() (string, error)
}

// RandomTokenGenerator generates URL-safe tokens from crypto/rand.
type RandomTokenGenerator struct{}

// Generate returns a fresh token string with 256 bits of entropy.
func (RandomTokenGenerator) Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
