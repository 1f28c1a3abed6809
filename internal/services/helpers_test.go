package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/mocks"
)

// recordingAudit keeps every audit event for assertions
type recordingAudit struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

func (r *recordingAudit) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) types() []domain.AuditEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

// clock is a settable time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fixedCode(code string) CodeGenerator {
	return func() (string, error) { return code, nil }
}

type otpFixture struct {
	svc     domain.OTPService
	store   *mocks.MockOTPStore
	sender  *mocks.MockNotificationSender
	buyers  *mocks.MockBuyerRepository
	sellers *mocks.MockSellerRepository
	audit   *recordingAudit
	clock   *clock
}

// createOTPServiceForTest wires an OTP service to in-memory fakes with a fixed code
func createOTPServiceForTest(t *testing.T, code string, cfg OTPConfig) *otpFixture {
	t.Helper()

	f := &otpFixture{
		store:   mocks.NewMockOTPStore(),
		sender:  mocks.NewMockNotificationSender(),
		buyers:  mocks.NewMockBuyerRepository(),
		sellers: mocks.NewMockSellerRepository(),
		audit:   &recordingAudit{},
		clock:   newClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	f.svc = NewOTPService(
		f.store,
		f.sender,
		map[domain.Role]domain.ActorProvisioner{
			domain.RoleBuyer:  f.buyers,
			domain.RoleSeller: f.sellers,
		},
		f.audit,
		cfg,
		WithCodeGenerator(fixedCode(code)),
		WithOTPClock(f.clock.Now),
	)
	return f
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
