package mocks

import (
	"fmt"
	"sync/atomic"

	"github.com/you/storefront/domain"
)

// MockTokenGenerator implements domain.TokenGenerator interface for testing
type MockTokenGenerator struct {
	NewTokenFunc func() (string, error)
	n            atomic.Int64
}

// NewMockTokenGenerator creates a new MockTokenGenerator with default behaviors
func NewMockTokenGenerator() *MockTokenGenerator {
	return &MockTokenGenerator{}
}

// NewToken returns a predictable token
func (m *MockTokenGenerator) NewToken() (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc()
	}
	// Default behavior: token-1, token-2, ...
	return fmt.Sprintf("token-%d", m.n.Add(1)), nil
}

// Compile-time interface compliance verification
var _ domain.TokenGenerator = (*MockTokenGenerator)(nil)
