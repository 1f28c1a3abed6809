package mocks

import (
	"sync"

	"github.com/you/storefront/domain"
)

// MockPasswordService implements domain.PasswordService for testing.
// Hashes are "hashed_<password>" and every Verify is recorded, so tests can
// check that a login attempt paid for a comparison.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	mu       sync.Mutex
	verified []string
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash generates a hash for the given password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify verifies a password against its hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	m.mu.Lock()
	m.verified = append(m.verified, hashedPassword)
	m.mu.Unlock()

	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// Verified returns the hashes Verify was asked to compare against, in order
func (m *MockPasswordService) Verified() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.verified...)
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
