package domain

import (
	"errors"
	"fmt"
	"time"
)

// Input errors, raised before any store access
var (
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidCode       = errors.New("invalid otp format")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidCredential = errors.New("malformed client credential")
	ErrInvalidSlug       = errors.New("invalid shop slug")
	ErrInvalidPolicy     = errors.New("invalid policy rule")
)

// OTP errors
var (
	ErrNoActiveCode  = errors.New("no active otp")
	ErrCodeExpired   = errors.New("otp has expired")
	ErrCodeMismatch  = errors.New("otp does not match")
	ErrResendTooSoon = errors.New("otp resend window still open")
	ErrOTPStore      = errors.New("otp store failure")
)

// Actor and session errors
var (
	ErrActorNotFound      = errors.New("actor not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSlugTaken          = errors.New("shop slug already taken")
	ErrStore              = errors.New("store failure")
)

// ErrPolicyProtected guards the rule that keeps admins in the admin API
var ErrPolicyProtected = errors.New("policy rule is protected")

// Delivery errors
var (
	ErrDelivery = errors.New("notification delivery failed")
)

// ThrottleError is returned when a code was requested inside the resend window
type ThrottleError struct {
	Wait time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrResendTooSoon, e.Wait)
}

func (e *ThrottleError) Unwrap() error { return ErrResendTooSoon }

// IsInputError reports whether err is rejected before touching storage
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrInvalidSlug) ||
		errors.Is(err, ErrInvalidPolicy)
}

// IsVerificationFailure reports whether err is one of the OTP outcomes that
// must collapse to a single unauthorized answer
func IsVerificationFailure(err error) bool {
	return errors.Is(err, ErrNoActiveCode) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrCodeMismatch)
}

// IsStoreError reports whether err comes from an unreachable or failing store
func IsStoreError(err error) bool {
	return errors.Is(err, ErrOTPStore) || errors.Is(err, ErrStore)
}
