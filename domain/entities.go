package domain

import (
	"strings"
	"time"
)

// Role identifies one of the three disjoint actor kinds
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Roles lists every role that owns a session gate
var Roles = []Role{RoleBuyer, RoleSeller, RoleAdmin}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UsesOTP reports whether actors of this role sign in with a phone code
func (r Role) UsesOTP() bool {
	return r == RoleBuyer || r == RoleSeller
}

const policySubjectPrefix = "role_"

// PolicySubject is the authorization subject shared by every actor of role r
func PolicySubject(r Role) string {
	return policySubjectPrefix + string(r)
}

// RoleFromSubject reverses PolicySubject. Anything that does not name a
// known role is ErrInvalidRole.
func RoleFromSubject(sub string) (Role, error) {
	name, ok := strings.CutPrefix(sub, policySubjectPrefix)
	role := Role(name)
	if !ok || !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// OTPRecord is the single live one-time code for a (phone, role) pair
type OTPRecord struct {
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at now
func (o *OTPRecord) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// OTPIssue is returned to the caller of an OTP issuance.
// Code is only populated when the service runs in development mode.
type OTPIssue struct {
	Phone     string
	Role      Role
	ExpiresAt time.Time
	Code      string
}

// Actor is the authenticated identity handed to downstream logic
type Actor struct {
	ID       uint
	Role     Role
	Phone    string
	Username string
}

// Buyer places orders; identified by phone
type Buyer struct {
	ID        uint
	Phone     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Seller runs a shop; identified by phone
type Seller struct {
	ID        uint
	Phone     string
	Shop      *Shop
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Shop is the seller's public storefront profile
type Shop struct {
	SellerID   uint
	Slug       string
	Name       string
	PickupInfo string
	ChatID     string
	UpdatedAt  time.Time
}

// Admin oversees sellers; signs in with username and password
type Admin struct {
	ID           uint
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// SessionRecord is the server-side session state embedded in an actor row.
// A nil ExpiresAt never expires.
type SessionRecord struct {
	ActorID   uint
	Phone     string
	Username  string
	Token     string
	ExpiresAt *time.Time
}

// ClientCredential is what the client stores and presents on every request.
// It carries no signature and only has meaning after re-validation.
type ClientCredential struct {
	Role      Role
	ActorID   uint
	Token     string
	ExpiresAt *time.Time
}

// AuthResult is the outcome of a session validation
type AuthResult struct {
	Authenticated bool
	Actor         *Actor
}

// Unauthenticated is the single failure outcome of every validation
var Unauthenticated = AuthResult{Authenticated: false}
