package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
)

// CodeGenerator produces a six digit code
type CodeGenerator func() (string, error)

type OTPConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration
	// EchoCode returns the code to the caller; development only
	EchoCode bool
}

// OTPOption customises an OTPServiceImpl
type OTPOption func(*OTPServiceImpl)

// WithCodeGenerator replaces the random code source
func WithCodeGenerator(gen CodeGenerator) OTPOption {
	return func(s *OTPServiceImpl) { s.generate = gen }
}

// WithOTPClock replaces time.Now
func WithOTPClock(now func() time.Time) OTPOption {
	return func(s *OTPServiceImpl) { s.now = now }
}

// OTPServiceImpl implements domain.OTPService on top of a domain.OTPStore
type OTPServiceImpl struct {
	store        domain.OTPStore
	sender       domain.NotificationSender
	provisioners map[domain.Role]domain.ActorProvisioner
	audit        domain.AuditLogger
	config       OTPConfig
	generate     CodeGenerator
	now          func() time.Time
}

// NewOTPService creates a new OTP service. provisioners maps each OTP role to
// the repository that creates its actors.
func NewOTPService(
	store domain.OTPStore,
	sender domain.NotificationSender,
	provisioners map[domain.Role]domain.ActorProvisioner,
	audit domain.AuditLogger,
	config OTPConfig,
	opts ...OTPOption,
) domain.OTPService {
	s := &OTPServiceImpl{
		store:        store,
		sender:       sender,
		provisioners: provisioners,
		audit:        audit,
		config:       config,
		generate:     GenerateCode,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue(ctx context.Context, phone string, role domain.Role) (*domain.OTPIssue, error) {
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if !role.UsesOTP() {
		return nil, domain.ErrInvalidRole
	}

	ok, wait, err := s.store.AcquireResend(ctx, phone, role, s.config.ResendWindow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ThrottleError{Wait: wait}
	}

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	rec := &domain.OTPRecord{
		Phone:     phone,
		Role:      role,
		Code:      code,
		ExpiresAt: s.now().Add(s.config.TTL).UTC(),
	}
	if err := s.store.Replace(ctx, rec); err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, role).WithPhone(phone).WithError(err))
		// no code went out, so the retry must not be throttled
		if relErr := s.store.ReleaseResend(ctx, phone, role); relErr != nil {
			zerolog.Ctx(ctx).Warn().Err(relErr).Str("phone", domain.MaskPhone(phone)).Msg("failed to release resend window")
		}
		return nil, err
	}

	// The stored code stays valid even when delivery fails; the user can ask again
	message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.sender.Send(ctx, domain.Destination{Channel: domain.ChannelSMS, Address: phone}, message); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("phone", domain.MaskPhone(phone)).Msg("otp delivery failed")
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPDeliveryFailureEvent, role).WithPhone(phone).WithError(err))
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, role).
		WithPhone(phone).
		WithMetadata("expires_at", rec.ExpiresAt))

	issue := &domain.OTPIssue{Phone: phone, Role: role, ExpiresAt: rec.ExpiresAt}
	if s.config.EchoCode {
		issue.Code = code
	}
	return issue, nil
}

// Verify implements domain.OTPService.
// The actor is provisioned before the code is consumed so a failed insert can be retried with the same code.
func (s *OTPServiceImpl) Verify(ctx context.Context, phone string, role domain.Role, code string) (*domain.Actor, error) {
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := domain.ValidateCode(code); err != nil {
		return nil, err
	}
	provisioner, ok := s.provisioners[role]
	if !role.UsesOTP() || !ok {
		return nil, domain.ErrInvalidRole
	}

	actor, err := s.verify(ctx, phone, role, code, provisioner)
	if err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPFailureEvent, role).WithPhone(phone).WithError(err))
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, role).WithPhone(phone).WithActor(actor.ID))
	return actor, nil
}

func (s *OTPServiceImpl) verify(ctx context.Context, phone string, role domain.Role, code string, provisioner domain.ActorProvisioner) (*domain.Actor, error) {
	rec, err := s.store.Get(ctx, phone, role)
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.now()) {
		return nil, domain.ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return nil, domain.ErrCodeMismatch
	}

	actor, err := provisioner.EnsureByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to provision %s: %w", role, err)
	}

	consumed, err := s.store.Consume(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// a concurrent verification or a fresh issue got there first
		return nil, domain.ErrNoActiveCode
	}
	return actor, nil
}

var codeSpace = big.NewInt(900000)

// GenerateCode returns a uniformly random code in 100000-999999
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
