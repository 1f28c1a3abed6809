package mocks

import (
	"context"
	"time"

	"github.com/you/storefront/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc  func(ctx context.Context, phone string, role domain.Role) (*domain.OTPIssue, error)
	VerifyFunc func(ctx context.Context, phone string, role domain.Role, code string) (*domain.Actor, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue issues a code
func (m *MockOTPService) Issue(ctx context.Context, phone string, role domain.Role) (*domain.OTPIssue, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, phone, role)
	}
	// Default behavior: success with five minutes to live
	return &domain.OTPIssue{Phone: phone, Role: role, ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

// Verify checks a code
func (m *MockOTPService) Verify(ctx context.Context, phone string, role domain.Role, code string) (*domain.Actor, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, role, code)
	}
	// Default behavior: "123456" verifies as actor 1
	if code == "123456" {
		return &domain.Actor{ID: 1, Role: role, Phone: phone}, nil
	}
	return nil, domain.ErrCodeMismatch
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
