package mocks

import (
	"context"

	"github.com/you/storefront/domain"
)

// MockRoleGate implements domain.RoleGate interface for testing
type MockRoleGate struct {
	IssueSessionFunc func(ctx context.Context, actor *domain.Actor) (*domain.ClientCredential, error)
	ValidateFunc     func(ctx context.Context, cred *domain.ClientCredential) domain.AuthResult
	LogoutFunc       func(ctx context.Context, cred *domain.ClientCredential) error

	role domain.Role
}

// NewMockRoleGate creates a new MockRoleGate with default behaviors
func NewMockRoleGate(role domain.Role) *MockRoleGate {
	return &MockRoleGate{role: role}
}

// Role returns the gate's role
func (m *MockRoleGate) Role() domain.Role {
	return m.role
}

// IssueSession issues a session
func (m *MockRoleGate) IssueSession(ctx context.Context, actor *domain.Actor) (*domain.ClientCredential, error) {
	if m.IssueSessionFunc != nil {
		return m.IssueSessionFunc(ctx, actor)
	}
	return &domain.ClientCredential{Role: m.role, ActorID: actor.ID, Token: "token"}, nil
}

// Validate validates a credential
func (m *MockRoleGate) Validate(ctx context.Context, cred *domain.ClientCredential) domain.AuthResult {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, cred)
	}
	// Default behavior: "token" is the only valid token
	if cred == nil || cred.Token != "token" {
		return domain.Unauthenticated
	}
	return domain.AuthResult{
		Authenticated: true,
		Actor:         &domain.Actor{ID: cred.ActorID, Role: m.role, Phone: "0812345678"},
	}
}

// Logout ends the session
func (m *MockRoleGate) Logout(ctx context.Context, cred *domain.ClientCredential) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, cred)
	}
	return nil
}

// MockAdminAuthService implements domain.AdminAuthService interface for testing
type MockAdminAuthService struct {
	LoginFunc func(ctx context.Context, username, password string) (*domain.Actor, *domain.ClientCredential, error)
}

// NewMockAdminAuthService creates a new MockAdminAuthService with default behaviors
func NewMockAdminAuthService() *MockAdminAuthService {
	return &MockAdminAuthService{}
}

// Login checks credentials
func (m *MockAdminAuthService) Login(ctx context.Context, username, password string) (*domain.Actor, *domain.ClientCredential, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	// Default behavior: invalid credentials
	return nil, nil, domain.ErrInvalidCredentials
}

// MockAccountService implements domain.AccountService interface for testing
type MockAccountService struct {
	DeleteSellerAccountFunc func(ctx context.Context, seller *domain.Actor) error
	DeleteSellerByIDFunc    func(ctx context.Context, sellerID uint) error
}

// NewMockAccountService creates a new MockAccountService with default behaviors
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

// DeleteSellerAccount deletes the seller's own account
func (m *MockAccountService) DeleteSellerAccount(ctx context.Context, seller *domain.Actor) error {
	if m.DeleteSellerAccountFunc != nil {
		return m.DeleteSellerAccountFunc(ctx, seller)
	}
	return nil
}

// DeleteSellerByID deletes a seller on behalf of an admin
func (m *MockAccountService) DeleteSellerByID(ctx context.Context, sellerID uint) error {
	if m.DeleteSellerByIDFunc != nil {
		return m.DeleteSellerByIDFunc(ctx, sellerID)
	}
	return nil
}

// MockShopService implements domain.ShopService interface for testing
type MockShopService struct {
	GetBySlugFunc    func(ctx context.Context, slug string) (*domain.Shop, error)
	GetForSellerFunc func(ctx context.Context, sellerID uint) (*domain.Shop, error)
	UpdateFunc       func(ctx context.Context, sellerID uint, shop *domain.Shop) (*domain.Shop, error)
	ListSellersFunc  func(ctx context.Context) ([]*domain.Seller, error)
	NotifySignInFunc func(ctx context.Context, sellerID uint)
}

// NewMockShopService creates a new MockShopService with default behaviors
func NewMockShopService() *MockShopService {
	return &MockShopService{}
}

// GetBySlug returns a public shop
func (m *MockShopService) GetBySlug(ctx context.Context, slug string) (*domain.Shop, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, domain.ErrActorNotFound
}

// GetForSeller returns the seller's shop
func (m *MockShopService) GetForSeller(ctx context.Context, sellerID uint) (*domain.Shop, error) {
	if m.GetForSellerFunc != nil {
		return m.GetForSellerFunc(ctx, sellerID)
	}
	return nil, domain.ErrActorNotFound
}

// Update saves the seller's shop
func (m *MockShopService) Update(ctx context.Context, sellerID uint, shop *domain.Shop) (*domain.Shop, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sellerID, shop)
	}
	out := *shop
	out.SellerID = sellerID
	return &out, nil
}

// ListSellers returns all sellers
func (m *MockShopService) ListSellers(ctx context.Context) ([]*domain.Seller, error) {
	if m.ListSellersFunc != nil {
		return m.ListSellersFunc(ctx)
	}
	return []*domain.Seller{}, nil
}

// NotifySignIn sends the sign-in notice
func (m *MockShopService) NotifySignIn(ctx context.Context, sellerID uint) {
	if m.NotifySignInFunc != nil {
		m.NotifySignInFunc(ctx, sellerID)
	}
}

// Compile-time interface compliance verification
var (
	_ domain.RoleGate         = (*MockRoleGate)(nil)
	_ domain.AdminAuthService = (*MockAdminAuthService)(nil)
	_ domain.AccountService   = (*MockAccountService)(nil)
	_ domain.ShopService      = (*MockShopService)(nil)
)
