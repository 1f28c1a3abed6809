package domain

import (
	"context"
	"time"
)

// OTPStore persists at most one OTP record per (phone, role)
type OTPStore interface {
	// Replace atomically swaps any existing record for the pair with rec
	Replace(ctx context.Context, rec *OTPRecord) error
	// Get returns ErrNoActiveCode when no record exists
	Get(ctx context.Context, phone string, role Role) (*OTPRecord, error)
	// Consume deletes rec only if it is still the stored record
	Consume(ctx context.Context, rec *OTPRecord) (bool, error)
	// Delete removes the record for the pair; deleting nothing is not an error
	Delete(ctx context.Context, phone string, role Role) error
	// AcquireResend claims the resend window; when it is already held the
	// remaining wait is returned
	AcquireResend(ctx context.Context, phone string, role Role, window time.Duration) (bool, time.Duration, error)
	// ReleaseResend drops a held resend window
	ReleaseResend(ctx context.Context, phone string, role Role) error
}

// OTPService issues and verifies phone codes
type OTPService interface {
	Issue(ctx context.Context, phone string, role Role) (*OTPIssue, error)
	Verify(ctx context.Context, phone string, role Role, code string) (*Actor, error)
}

// ActorProvisioner creates or loads the actor owning a phone, keyed by phone
type ActorProvisioner interface {
	EnsureByPhone(ctx context.Context, phone string) (*Actor, error)
}

// SessionStore is the role-scoped capability over actor session columns
type SessionStore interface {
	Role() Role
	Get(ctx context.Context, actorID uint) (*SessionRecord, error)
	Set(ctx context.Context, actorID uint, token string, expiresAt *time.Time) error
	Clear(ctx context.Context, actorID uint) error
}

// RoleGate issues and validates sessions for exactly one role
type RoleGate interface {
	Role() Role
	IssueSession(ctx context.Context, actor *Actor) (*ClientCredential, error)
	Validate(ctx context.Context, cred *ClientCredential) AuthResult
	Logout(ctx context.Context, cred *ClientCredential) error
}

// BuyerRepository defines buyer data access
type BuyerRepository interface {
	ActorProvisioner
	FindByID(ctx context.Context, id uint) (*Buyer, error)
}

// SellerRepository defines seller data access
type SellerRepository interface {
	ActorProvisioner
	FindByID(ctx context.Context, id uint) (*Seller, error)
	List(ctx context.Context) ([]*Seller, error)
	Delete(ctx context.Context, id uint) error
	FindShopBySlug(ctx context.Context, slug string) (*Shop, error)
	SaveShop(ctx context.Context, shop *Shop) error
}

// AdminRepository defines admin data access
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByUsername(ctx context.Context, username string) (*Admin, error)
}

// AdminAuthService checks admin credentials and opens admin sessions
type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (*Actor, *ClientCredential, error)
}

// AccountService handles account lifecycle
type AccountService interface {
	DeleteSellerAccount(ctx context.Context, seller *Actor) error
	DeleteSellerByID(ctx context.Context, sellerID uint) error
}

// ShopService manages seller storefront profiles
type ShopService interface {
	GetBySlug(ctx context.Context, slug string) (*Shop, error)
	GetForSeller(ctx context.Context, sellerID uint) (*Shop, error)
	Update(ctx context.Context, sellerID uint, shop *Shop) (*Shop, error)
	ListSellers(ctx context.Context) ([]*Seller, error)
	// NotifySignIn tells the seller's chat about a new sign-in; failures are only logged
	NotifySignIn(ctx context.Context, sellerID uint)
}

// Destination addresses a notification
type Destination struct {
	Channel Channel
	Address string
}

// Channel is the delivery medium for a notification
type Channel string

const (
	ChannelSMS  Channel = "sms"
	ChannelChat Channel = "chat"
)

// NotificationSender delivers a one-way message
type NotificationSender interface {
	Send(ctx context.Context, to Destination, message string) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenGenerator produces opaque high-entropy session tokens
type TokenGenerator interface {
	NewToken() (string, error)
}

// PolicyService defines route authorization policy operations.
// Subjects are PolicySubject values; objects are route patterns.
type PolicyService interface {
	AddPolicy(sub, obj, act string) error
	RemovePolicy(sub, obj, act string) error
	CheckPermission(role Role, obj, act string) (bool, error)
	GetPolicies() ([][]string, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
