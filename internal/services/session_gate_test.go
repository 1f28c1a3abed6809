package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/mocks"
)

var gateNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func createGateForTest(t *testing.T, role domain.Role, ttl time.Duration) (*SessionGate, *mocks.MockSessionStore, *recordingAudit) {
	t.Helper()

	store := mocks.NewMockSessionStore(role)
	store.AddActor(1, "0812345678", "")
	audit := &recordingAudit{}
	gate := NewSessionGate(store, mocks.NewMockTokenGenerator(), ttl, audit, WithGateClock(func() time.Time { return gateNow }))
	return gate, store, audit
}

func TestSessionGate_IssueAndValidate(t *testing.T) {
	tests := []struct {
		name           string
		role           domain.Role
		ttl            time.Duration
		expectedExpiry *time.Time
	}{
		{name: "buyer session never expires", role: domain.RoleBuyer},
		{name: "seller session never expires", role: domain.RoleSeller},
		{name: "admin session expires after ttl", role: domain.RoleAdmin, ttl: 12 * time.Hour, expectedExpiry: ptrTime(gateNow.Add(12 * time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, store, audit := createGateForTest(t, tt.role, tt.ttl)
			ctx := createTestContext(t)

			cred, err := gate.IssueSession(ctx, &domain.Actor{ID: 1, Role: tt.role})
			require.NoError(t, err)
			assert.Equal(t, tt.role, cred.Role)
			assert.Equal(t, uint(1), cred.ActorID)
			assert.NotEmpty(t, cred.Token)
			assert.Equal(t, tt.expectedExpiry, cred.ExpiresAt)

			rec, err := store.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, cred.Token, rec.Token)

			res := gate.Validate(ctx, cred)
			require.True(t, res.Authenticated)
			assert.Equal(t, uint(1), res.Actor.ID)
			assert.Equal(t, tt.role, res.Actor.Role)
			assert.Equal(t, "0812345678", res.Actor.Phone)
			assert.Equal(t, []domain.AuditEventType{domain.LoginEvent}, audit.types())
		})
	}
}

func TestSessionGate_NewLoginReplacesOldToken(t *testing.T) {
	gate, _, _ := createGateForTest(t, domain.RoleSeller, 0)
	ctx := createTestContext(t)
	actor := &domain.Actor{ID: 1, Role: domain.RoleSeller}

	first, err := gate.IssueSession(ctx, actor)
	require.NoError(t, err)
	second, err := gate.IssueSession(ctx, actor)
	require.NoError(t, err)

	assert.False(t, gate.Validate(ctx, first).Authenticated)
	assert.True(t, gate.Validate(ctx, second).Authenticated)
}

func TestSessionGate_IssueRejectsOtherRoles(t *testing.T) {
	gate, _, _ := createGateForTest(t, domain.RoleSeller, 0)

	_, err := gate.IssueSession(createTestContext(t), &domain.Actor{ID: 1, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = gate.IssueSession(createTestContext(t), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestSessionGate_IssueStoreFailure(t *testing.T) {
	gate, store, audit := createGateForTest(t, domain.RoleBuyer, 0)
	store.SetFunc = func(ctx context.Context, actorID uint, token string, expiresAt *time.Time) error {
		return domain.ErrStore
	}

	_, err := gate.IssueSession(createTestContext(t), &domain.Actor{ID: 1, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Equal(t, []domain.AuditEventType{domain.LoginFailureEvent}, audit.types())
}

func TestSessionGate_ValidateFailsClosed(t *testing.T) {
	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	future := gateNow.Add(time.Hour)

	tests := []struct {
		name  string
		role  domain.Role
		setup func(store *mocks.MockSessionStore)
		cred  *domain.ClientCredential
	}{
		{
			name: "missing credential",
			role: domain.RoleBuyer,
			cred: nil,
		},
		{
			name: "empty token",
			role: domain.RoleBuyer,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc"})
			},
			cred: &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 1, Token: ""},
		},
		{
			name: "zero actor id",
			role: domain.RoleBuyer,
			cred: &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 0, Token: "abc"},
		},
		{
			name: "credential of another role",
			role: domain.RoleBuyer,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc"})
			},
			cred: &domain.ClientCredential{Role: domain.RoleSeller, ActorID: 1, Token: "abc"},
		},
		{
			name: "unknown actor",
			role: domain.RoleSeller,
			cred: &domain.ClientCredential{Role: domain.RoleSeller, ActorID: 77, Token: "abc"},
		},
		{
			name: "logged out actor",
			role: domain.RoleSeller,
			setup: func(store *mocks.MockSessionStore) {
				store.AddActor(1, "0812345678", "")
			},
			cred: &domain.ClientCredential{Role: domain.RoleSeller, ActorID: 1, Token: "abc"},
		},
		{
			name: "token mismatch",
			role: domain.RoleSeller,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc"})
			},
			cred: &domain.ClientCredential{Role: domain.RoleSeller, ActorID: 1, Token: "abd"},
		},
		{
			name: "token prefix",
			role: domain.RoleSeller,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc"})
			},
			cred: &domain.ClientCredential{Role: domain.RoleSeller, ActorID: 1, Token: "ab"},
		},
		{
			name: "admin session expired on 2024-01-01",
			role: domain.RoleAdmin,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Username: "root", Token: "abc", ExpiresAt: &past})
			},
			cred: &domain.ClientCredential{Role: domain.RoleAdmin, ActorID: 1, Token: "abc"},
		},
		{
			name: "expiry equal to now",
			role: domain.RoleAdmin,
			setup: func(store *mocks.MockSessionStore) {
				now := gateNow
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc", ExpiresAt: &now})
			},
			cred: &domain.ClientCredential{Role: domain.RoleAdmin, ActorID: 1, Token: "abc"},
		},
		{
			name: "store outage",
			role: domain.RoleBuyer,
			setup: func(store *mocks.MockSessionStore) {
				store.Put(domain.SessionRecord{ActorID: 1, Token: "abc", ExpiresAt: &future})
				store.GetFunc = func(ctx context.Context, actorID uint) (*domain.SessionRecord, error) {
					return nil, domain.ErrStore
				}
			},
			cred: &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 1, Token: "abc"},
		},
		{
			name: "store panics",
			role: domain.RoleBuyer,
			setup: func(store *mocks.MockSessionStore) {
				store.GetFunc = func(ctx context.Context, actorID uint) (*domain.SessionRecord, error) {
					panic("driver bug")
				}
			},
			cred: &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 1, Token: "abc"},
		},
		{
			name: "store returns nil record",
			role: domain.RoleBuyer,
			setup: func(store *mocks.MockSessionStore) {
				store.GetFunc = func(ctx context.Context, actorID uint) (*domain.SessionRecord, error) {
					return nil, nil
				}
			},
			cred: &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 1, Token: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockSessionStore(tt.role)
			if tt.setup != nil {
				tt.setup(store)
			}
			gate := NewSessionGate(store, mocks.NewMockTokenGenerator(), 0, &recordingAudit{}, WithGateClock(func() time.Time { return gateNow }))

			var res domain.AuthResult
			require.NotPanics(t, func() { res = gate.Validate(createTestContext(t), tt.cred) })
			assert.Equal(t, domain.Unauthenticated, res)
		})
	}
}

func TestSessionGate_ValidateUnexpiredAdmin(t *testing.T) {
	future := gateNow.Add(time.Minute)
	store := mocks.NewMockSessionStore(domain.RoleAdmin)
	store.Put(domain.SessionRecord{ActorID: 3, Username: "root", Token: "abc", ExpiresAt: &future})
	gate := NewSessionGate(store, mocks.NewMockTokenGenerator(), time.Hour, &recordingAudit{}, WithGateClock(func() time.Time { return gateNow }))

	res := gate.Validate(createTestContext(t), &domain.ClientCredential{Role: domain.RoleAdmin, ActorID: 3, Token: "abc"})
	require.True(t, res.Authenticated)
	assert.Equal(t, "root", res.Actor.Username)
}

func TestSessionGate_Logout(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		gate, store, audit := createGateForTest(t, domain.RoleBuyer, 0)
		ctx := createTestContext(t)

		cred, err := gate.IssueSession(ctx, &domain.Actor{ID: 1, Role: domain.RoleBuyer})
		require.NoError(t, err)

		require.NoError(t, gate.Logout(ctx, cred))
		assert.False(t, gate.Validate(ctx, cred).Authenticated)

		_, err = store.Get(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.Contains(t, audit.types(), domain.LogoutEvent)

		// second logout is a no-op
		assert.NoError(t, gate.Logout(ctx, cred))
	})

	t.Run("unauthenticated logout leaves other sessions alone", func(t *testing.T) {
		gate, store, _ := createGateForTest(t, domain.RoleBuyer, 0)
		ctx := createTestContext(t)

		cred, err := gate.IssueSession(ctx, &domain.Actor{ID: 1, Role: domain.RoleBuyer})
		require.NoError(t, err)

		store.ClearFunc = func(ctx context.Context, actorID uint) error {
			t.Error("clear must not run for a forged credential")
			return nil
		}
		forged := &domain.ClientCredential{Role: domain.RoleBuyer, ActorID: 1, Token: "guess"}
		assert.NoError(t, gate.Logout(ctx, forged))
		assert.NoError(t, gate.Logout(ctx, nil))

		assert.True(t, gate.Validate(ctx, cred).Authenticated)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		gate, store, _ := createGateForTest(t, domain.RoleSeller, 0)
		ctx := createTestContext(t)

		cred, err := gate.IssueSession(ctx, &domain.Actor{ID: 1, Role: domain.RoleSeller})
		require.NoError(t, err)

		store.ClearFunc = func(ctx context.Context, actorID uint) error {
			return domain.ErrStore
		}
		assert.ErrorIs(t, gate.Logout(ctx, cred), domain.ErrStore)
		assert.True(t, gate.Validate(ctx, cred).Authenticated)
	})
}

func TestNewGateSet(t *testing.T) {
	tokens := mocks.NewMockTokenGenerator()
	audit := &recordingAudit{}
	ttls := map[domain.Role]time.Duration{domain.RoleAdmin: 12 * time.Hour}

	t.Run("one gate per role", func(t *testing.T) {
		set, err := NewGateSet(tokens, audit, ttls,
			mocks.NewMockSessionStore(domain.RoleBuyer),
			mocks.NewMockSessionStore(domain.RoleSeller),
			mocks.NewMockSessionStore(domain.RoleAdmin),
		)
		require.NoError(t, err)
		for _, role := range domain.Roles {
			gate, ok := set.Gate(role)
			require.True(t, ok)
			assert.Equal(t, role, gate.Role())
		}
		assert.Equal(t, 12*time.Hour, set[domain.RoleAdmin].(*SessionGate).ttl)
		assert.Zero(t, set[domain.RoleBuyer].(*SessionGate).ttl)
	})

	t.Run("missing role", func(t *testing.T) {
		_, err := NewGateSet(tokens, audit, ttls,
			mocks.NewMockSessionStore(domain.RoleBuyer),
			mocks.NewMockSessionStore(domain.RoleSeller),
		)
		assert.Error(t, err)
	})

	t.Run("duplicate role", func(t *testing.T) {
		_, err := NewGateSet(tokens, audit, ttls,
			mocks.NewMockSessionStore(domain.RoleBuyer),
			mocks.NewMockSessionStore(domain.RoleBuyer),
			mocks.NewMockSessionStore(domain.RoleSeller),
			mocks.NewMockSessionStore(domain.RoleAdmin),
		)
		assert.Error(t, err)
	})

	t.Run("gates do not share sessions", func(t *testing.T) {
		buyers := mocks.NewMockSessionStore(domain.RoleBuyer)
		sellers := mocks.NewMockSessionStore(domain.RoleSeller)
		buyers.AddActor(1, "0812345678", "")
		sellers.AddActor(1, "0812345678", "")

		set, err := NewGateSet(tokens, audit, ttls, buyers, sellers, mocks.NewMockSessionStore(domain.RoleAdmin))
		require.NoError(t, err)
		ctx := createTestContext(t)

		cred, err := set[domain.RoleBuyer].IssueSession(ctx, &domain.Actor{ID: 1, Role: domain.RoleBuyer})
		require.NoError(t, err)

		asSeller := *cred
		asSeller.Role = domain.RoleSeller
		assert.False(t, set[domain.RoleSeller].Validate(ctx, &asSeller).Authenticated)
		assert.False(t, set[domain.RoleSeller].Validate(ctx, cred).Authenticated)
		assert.True(t, set[domain.RoleBuyer].Validate(ctx, cred).Authenticated)
	})
}

func ptrTime(t time.Time) *time.Time { return &t }
