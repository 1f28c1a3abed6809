package services

import (
	"context"
	"fmt"

	"github.com/you/storefront/domain"
)

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	sellers domain.SellerRepository
	otps    domain.OTPStore
	audit   domain.AuditLogger
}

// NewAccountService creates a new account lifecycle service
func NewAccountService(sellers domain.SellerRepository, otps domain.OTPStore, audit domain.AuditLogger) domain.AccountService {
	return &AccountServiceImpl{
		sellers: sellers,
		otps:    otps,
		audit:   audit,
	}
}

// DeleteSellerAccount implements domain.AccountService.
// The OTP record goes first so a half-finished deletion can simply be run again.
func (s *AccountServiceImpl) DeleteSellerAccount(ctx context.Context, seller *domain.Actor) error {
	if seller == nil || seller.Role != domain.RoleSeller || seller.ID == 0 {
		return domain.ErrInvalidRole
	}

	if err := s.otps.Delete(ctx, seller.Phone, domain.RoleSeller); err != nil {
		s.fail(ctx, seller, err)
		return fmt.Errorf("failed to delete seller otp: %w", err)
	}

	if err := s.sellers.Delete(ctx, seller.ID); err != nil {
		s.fail(ctx, seller, err)
		return fmt.Errorf("failed to delete seller: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountDeletedEvent, domain.RoleSeller).
		WithActor(seller.ID).
		WithPhone(seller.Phone))
	return nil
}

// DeleteSellerByID implements domain.AccountService
func (s *AccountServiceImpl) DeleteSellerByID(ctx context.Context, sellerID uint) error {
	seller, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	return s.DeleteSellerAccount(ctx, &domain.Actor{ID: seller.ID, Role: domain.RoleSeller, Phone: seller.Phone})
}

func (s *AccountServiceImpl) fail(ctx context.Context, seller *domain.Actor, err error) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccountDeleteFailureEvent, domain.RoleSeller).
		WithActor(seller.ID).
		WithPhone(seller.Phone).
		WithError(err))
}
