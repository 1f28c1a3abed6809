package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
)

// GateOption customises a SessionGate
type GateOption func(*SessionGate)

// WithGateClock replaces time.Now
func WithGateClock(now func() time.Time) GateOption {
	return func(g *SessionGate) { g.now = now }
}

// SessionGate implements domain.RoleGate for the role of its store.
// A zero TTL issues sessions that never expire.
type SessionGate struct {
	role   domain.Role
	store  domain.SessionStore
	tokens domain.TokenGenerator
	ttl    time.Duration
	audit  domain.AuditLogger
	now    func() time.Time
}

// NewSessionGate creates a gate over one role-scoped session store
func NewSessionGate(store domain.SessionStore, tokens domain.TokenGenerator, ttl time.Duration, audit domain.AuditLogger, opts ...GateOption) *SessionGate {
	g := &SessionGate{
		role:   store.Role(),
		store:  store,
		tokens: tokens,
		ttl:    ttl,
		audit:  audit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Role implements domain.RoleGate
func (g *SessionGate) Role() domain.Role {
	return g.role
}

// IssueSession implements domain.RoleGate. Any earlier session of the actor is replaced.
func (g *SessionGate) IssueSession(ctx context.Context, actor *domain.Actor) (*domain.ClientCredential, error) {
	if actor == nil || actor.Role != g.Role() || actor.ID == 0 {
		return nil, domain.ErrInvalidRole
	}

	token, err := g.tokens.NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	var expiresAt *time.Time
	if g.ttl > 0 {
		t := g.now().Add(g.ttl).UTC()
		expiresAt = &t
	}

	if err := g.store.Set(ctx, actor.ID, token, expiresAt); err != nil {
		g.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, g.Role()).WithActor(actor.ID).WithError(err))
		return nil, fmt.Errorf("failed to persist %s session: %w", g.Role(), err)
	}

	g.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginEvent, g.Role()).WithActor(actor.ID))
	return &domain.ClientCredential{
		Role:      g.Role(),
		ActorID:   actor.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate implements domain.RoleGate. Every failure, including a panic, is
// reported as domain.Unauthenticated.
func (g *SessionGate) Validate(ctx context.Context, cred *domain.ClientCredential) (result domain.AuthResult) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("role", string(g.Role())).
				Interface("panic", r).
				Msg("session validation panicked")
			result = domain.Unauthenticated
		}
	}()

	if cred == nil || cred.Role != g.Role() || cred.ActorID == 0 || cred.Token == "" {
		return domain.Unauthenticated
	}

	rec, err := g.store.Get(ctx, cred.ActorID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("role", string(g.Role())).
				Uint("actor_id", cred.ActorID).
				Msg("session lookup failed")
		}
		return domain.Unauthenticated
	}

	if rec.Token == "" || subtle.ConstantTimeCompare([]byte(rec.Token), []byte(cred.Token)) != 1 {
		return domain.Unauthenticated
	}
	if rec.ExpiresAt != nil && !g.now().Before(*rec.ExpiresAt) {
		return domain.Unauthenticated
	}

	return domain.AuthResult{
		Authenticated: true,
		Actor: &domain.Actor{
			ID:       rec.ActorID,
			Role:     g.Role(),
			Phone:    rec.Phone,
			Username: rec.Username,
		},
	}
}

// Logout implements domain.RoleGate. Only an authenticated credential clears
// server state; anything else is already logged out.
func (g *SessionGate) Logout(ctx context.Context, cred *domain.ClientCredential) error {
	res := g.Validate(ctx, cred)
	if !res.Authenticated {
		return nil
	}

	if err := g.store.Clear(ctx, res.Actor.ID); err != nil {
		return fmt.Errorf("failed to clear %s session: %w", g.Role(), err)
	}

	g.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LogoutEvent, g.Role()).WithActor(res.Actor.ID))
	return nil
}

// GateSet holds one gate per role
type GateSet map[domain.Role]domain.RoleGate

// NewGateSet builds a SessionGate for each store. Every role needs exactly one store.
func NewGateSet(tokens domain.TokenGenerator, audit domain.AuditLogger, ttls map[domain.Role]time.Duration, stores ...domain.SessionStore) (GateSet, error) {
	set := make(GateSet, len(stores))
	for _, store := range stores {
		role := store.Role()
		if !role.Valid() {
			return nil, fmt.Errorf("session store: %w: %q", domain.ErrInvalidRole, role)
		}
		if _, dup := set[role]; dup {
			return nil, fmt.Errorf("duplicate session store for %s", role)
		}
		set[role] = NewSessionGate(store, tokens, ttls[role], audit)
	}
	for _, role := range domain.Roles {
		if _, ok := set[role]; !ok {
			return nil, fmt.Errorf("missing session store for %s", role)
		}
	}
	return set, nil
}

// Gate returns the gate for role
func (s GateSet) Gate(role domain.Role) (domain.RoleGate, bool) {
	g, ok := s[role]
	return g, ok
}

var _ domain.RoleGate = (*SessionGate)(nil)
