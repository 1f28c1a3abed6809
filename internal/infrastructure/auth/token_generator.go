package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/you/storefront/domain"
)

// tokenBytes gives 256 bits of entropy per session token
const tokenBytes = 32

// RandomTokenGenerator implements domain.TokenGenerator using crypto/rand
type RandomTokenGenerator struct{}

// NewTokenGenerator creates a new session token generator
func NewTokenGenerator() domain.TokenGenerator {
	return RandomTokenGenerator{}
}

// NewToken implements domain.TokenGenerator
func (RandomTokenGenerator) NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
