package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/storefront/domain"
)

// MockOTPStore implements domain.OTPStore interface for testing.
// Without overrides it behaves like a real store held in memory.
type MockOTPStore struct {
	ReplaceFunc       func(ctx context.Context, rec *domain.OTPRecord) error
	GetFunc           func(ctx context.Context, phone string, role domain.Role) (*domain.OTPRecord, error)
	ConsumeFunc       func(ctx context.Context, rec *domain.OTPRecord) (bool, error)
	DeleteFunc        func(ctx context.Context, phone string, role domain.Role) error
	AcquireResendFunc func(ctx context.Context, phone string, role domain.Role, window time.Duration) (bool, time.Duration, error)
	ReleaseResendFunc func(ctx context.Context, phone string, role domain.Role) error

	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

// NewMockOTPStore creates a new MockOTPStore with default behaviors
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{records: make(map[string]domain.OTPRecord)}
}

func otpKey(phone string, role domain.Role) string {
	return string(role) + ":" + phone
}

// Replace stores rec, dropping any previous record for the pair
func (m *MockOTPStore) Replace(ctx context.Context, rec *domain.OTPRecord) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[otpKey(rec.Phone, rec.Role)] = *rec
	return nil
}

// Get returns the stored record
func (m *MockOTPStore) Get(ctx context.Context, phone string, role domain.Role) (*domain.OTPRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, phone, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[otpKey(phone, role)]
	if !ok {
		return nil, domain.ErrNoActiveCode
	}
	return &rec, nil
}

// Consume deletes rec if it is still the stored record
func (m *MockOTPStore) Consume(ctx context.Context, rec *domain.OTPRecord) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := otpKey(rec.Phone, rec.Role)
	stored, ok := m.records[key]
	if !ok || stored.Code != rec.Code || !stored.ExpiresAt.Equal(rec.ExpiresAt) {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

// Delete removes the record for the pair
func (m *MockOTPStore) Delete(ctx context.Context, phone string, role domain.Role) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, phone, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, otpKey(phone, role))
	return nil
}

// AcquireResend claims the resend window
func (m *MockOTPStore) AcquireResend(ctx context.Context, phone string, role domain.Role, window time.Duration) (bool, time.Duration, error) {
	if m.AcquireResendFunc != nil {
		return m.AcquireResendFunc(ctx, phone, role, window)
	}
	// Default behavior: never throttled
	return true, 0, nil
}

// ReleaseResend drops the resend window
func (m *MockOTPStore) ReleaseResend(ctx context.Context, phone string, role domain.Role) error {
	if m.ReleaseResendFunc != nil {
		return m.ReleaseResendFunc(ctx, phone, role)
	}
	return nil
}

// Count returns how many records are held
func (m *MockOTPStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Compile-time interface compliance verification
var _ domain.OTPStore = (*MockOTPStore)(nil)
