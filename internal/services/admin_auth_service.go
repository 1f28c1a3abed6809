package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/storefront/domain"
)

// unknownAdminPassword is hashed once so that logins for unknown usernames
// pay for a real comparison too
const unknownAdminPassword = "storefront-unknown-admin"

// AdminAuthServiceImpl implements domain.AdminAuthService
type AdminAuthServiceImpl struct {
	admins    domain.AdminRepository
	passwords domain.PasswordService
	gate      domain.RoleGate
	audit     domain.AuditLogger
	dummyHash string
}

// NewAdminAuthService creates a new admin login service
func NewAdminAuthService(admins domain.AdminRepository, passwords domain.PasswordService, gate domain.RoleGate, audit domain.AuditLogger) domain.AdminAuthService {
	// on failure the comparison runs against an empty hash and still fails
	dummyHash, _ := passwords.Hash(unknownAdminPassword)
	return &AdminAuthServiceImpl{
		admins:    admins,
		passwords: passwords,
		gate:      gate,
		audit:     audit,
		dummyHash: dummyHash,
	}
}

// Login implements domain.AdminAuthService. Unknown usernames and wrong
// passwords return the same error.
func (s *AdminAuthServiceImpl) Login(ctx context.Context, username, password string) (*domain.Actor, *domain.ClientCredential, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			s.passwords.Verify(s.dummyHash, password)
			s.fail(ctx, username, domain.ErrInvalidCredentials)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !s.passwords.Verify(admin.PasswordHash, password) {
		s.fail(ctx, username, domain.ErrInvalidCredentials)
		return nil, nil, domain.ErrInvalidCredentials
	}

	actor := &domain.Actor{ID: admin.ID, Role: domain.RoleAdmin, Username: admin.Username}
	cred, err := s.gate.IssueSession(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	return actor, cred, nil
}

func (s *AdminAuthServiceImpl) fail(ctx context.Context, username string, err error) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, domain.RoleAdmin).
		WithMetadata("username", username).
		WithError(err))
}
