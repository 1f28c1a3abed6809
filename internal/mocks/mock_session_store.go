package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/storefront/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing.
// Without overrides it keeps sessions in memory; actors must be added with AddActor.
type MockSessionStore struct {
	GetFunc   func(ctx context.Context, actorID uint) (*domain.SessionRecord, error)
	SetFunc   func(ctx context.Context, actorID uint, token string, expiresAt *time.Time) error
	ClearFunc func(ctx context.Context, actorID uint) error

	role   domain.Role
	mu     sync.Mutex
	actors map[uint]*domain.SessionRecord
}

// NewMockSessionStore creates a new MockSessionStore for role
func NewMockSessionStore(role domain.Role) *MockSessionStore {
	return &MockSessionStore{role: role, actors: make(map[uint]*domain.SessionRecord)}
}

// AddActor registers an actor row without a session
func (m *MockSessionStore) AddActor(id uint, phone, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[id] = &domain.SessionRecord{ActorID: id, Phone: phone, Username: username}
}

// RemoveActor drops the actor row
func (m *MockSessionStore) RemoveActor(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actors, id)
}

// Put writes a session directly, creating the actor if needed
func (m *MockSessionStore) Put(rec domain.SessionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[rec.ActorID] = &rec
}

// Role returns the partition this store serves
func (m *MockSessionStore) Role() domain.Role {
	return m.role
}

// Get returns the session of actorID
func (m *MockSessionStore) Get(ctx context.Context, actorID uint) (*domain.SessionRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, actorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.actors[actorID]
	if !ok || rec.Token == "" {
		return nil, domain.ErrSessionNotFound
	}
	out := *rec
	return &out, nil
}

// Set stores a session token on the actor
func (m *MockSessionStore) Set(ctx context.Context, actorID uint, token string, expiresAt *time.Time) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, actorID, token, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.actors[actorID]
	if !ok {
		return domain.ErrActorNotFound
	}
	rec.Token = token
	rec.ExpiresAt = expiresAt
	return nil
}

// Clear removes the session from the actor
func (m *MockSessionStore) Clear(ctx context.Context, actorID uint) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, actorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.actors[actorID]; ok {
		rec.Token = ""
		rec.ExpiresAt = nil
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
