package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
)

// AuditLogger writes audit events as structured log lines
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger on top of a zerolog logger
func NewAuditLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogEvent implements domain.AuditLogger
func (a *AuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &a.logger
	}

	ev := l.Info()
	if !event.Success {
		ev = l.Warn()
	}
	ev = ev.Str("component", "audit").
		Str("event_type", string(event.EventType)).
		Bool("success", event.Success).
		Time("event_time", event.Timestamp)
	if event.Role != "" {
		ev = ev.Str("role", string(event.Role))
	}
	if event.ActorID != 0 {
		ev = ev.Uint("actor_id", event.ActorID)
	}
	if event.Phone != "" {
		ev = ev.Str("phone", event.Phone)
	}
	if event.ErrorMsg != "" {
		ev = ev.Str("error", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		ev = ev.Fields(event.Metadata)
	}
	ev.Msg("audit")
}

// NopAuditLogger discards events
type NopAuditLogger struct{}

// LogEvent implements domain.AuditLogger
func (NopAuditLogger) LogEvent(context.Context, *domain.AuditEvent) {}

var (
	_ domain.AuditLogger = (*AuditLogger)(nil)
	_ domain.AuditLogger = NopAuditLogger{}
)
