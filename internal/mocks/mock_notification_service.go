package mocks

import (
	"context"
	"sync"

	"github.com/you/storefront/domain"
)

// SentMessage records one delivery attempt
type SentMessage struct {
	To      domain.Destination
	Message string
}

// MockNotificationSender implements domain.NotificationSender interface for testing
type MockNotificationSender struct {
	SendFunc func(ctx context.Context, to domain.Destination, message string) error

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockNotificationSender creates a new MockNotificationSender with default behaviors
func NewMockNotificationSender() *MockNotificationSender {
	return &MockNotificationSender{}
}

// Send records the message and delivers it
func (m *MockNotificationSender) Send(ctx context.Context, to domain.Destination, message string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{To: to, Message: message})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, message)
	}
	// Default behavior: success (no actual message sent in tests)
	return nil
}

// Sent returns every message passed to Send, including failed ones
func (m *MockNotificationSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.NotificationSender = (*MockNotificationSender)(nil)
