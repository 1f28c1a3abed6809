package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// OTP events
	OTPRequestEvent         AuditEventType = "OTP_REQUESTED"
	OTPDeliveryFailureEvent AuditEventType = "OTP_DELIVERY_FAILED"
	OTPVerifyEvent          AuditEventType = "OTP_VERIFIED"
	OTPFailureEvent         AuditEventType = "OTP_VERIFICATION_FAILED"

	// Session events
	LoginEvent        AuditEventType = "LOGIN"
	LoginFailureEvent AuditEventType = "LOGIN_FAILED"
	LogoutEvent       AuditEventType = "LOGOUT"

	// Account events
	AccountDeletedEvent       AuditEventType = "ACCOUNT_DELETED"
	AccountDeleteFailureEvent AuditEventType = "ACCOUNT_DELETE_FAILED"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	Role      Role                   `json:"role,omitempty"`
	ActorID   uint                   `json:"actor_id,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, role Role) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Role:      role,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithActor sets the actor id
func (e *AuditEvent) WithActor(id uint) *AuditEvent {
	e.ActorID = id
	return e
}

// WithPhone sets the phone field, masked
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = MaskPhone(phone)
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
