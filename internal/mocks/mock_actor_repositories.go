package mocks

import (
	"context"
	"sync"

	"github.com/you/storefront/domain"
)

// MockBuyerRepository implements domain.BuyerRepository interface for testing
type MockBuyerRepository struct {
	EnsureByPhoneFunc func(ctx context.Context, phone string) (*domain.Actor, error)
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Buyer, error)
}

// NewMockBuyerRepository creates a new MockBuyerRepository with default behaviors
func NewMockBuyerRepository() *MockBuyerRepository {
	return &MockBuyerRepository{}
}

// EnsureByPhone provisions the buyer for phone
func (m *MockBuyerRepository) EnsureByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	if m.EnsureByPhoneFunc != nil {
		return m.EnsureByPhoneFunc(ctx, phone)
	}
	// Default behavior: buyer 1
	return &domain.Actor{ID: 1, Role: domain.RoleBuyer, Phone: phone}, nil
}

// FindByID finds a buyer by ID
func (m *MockBuyerRepository) FindByID(ctx context.Context, id uint) (*domain.Buyer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrActorNotFound
}

// MockSellerRepository implements domain.SellerRepository interface for testing
type MockSellerRepository struct {
	EnsureByPhoneFunc  func(ctx context.Context, phone string) (*domain.Actor, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.Seller, error)
	ListFunc           func(ctx context.Context) ([]*domain.Seller, error)
	DeleteFunc         func(ctx context.Context, id uint) error
	FindShopBySlugFunc func(ctx context.Context, slug string) (*domain.Shop, error)
	SaveShopFunc       func(ctx context.Context, shop *domain.Shop) error

	mu      sync.Mutex
	deleted []uint
}

// NewMockSellerRepository creates a new MockSellerRepository with default behaviors
func NewMockSellerRepository() *MockSellerRepository {
	return &MockSellerRepository{}
}

// EnsureByPhone provisions the seller for phone
func (m *MockSellerRepository) EnsureByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	if m.EnsureByPhoneFunc != nil {
		return m.EnsureByPhoneFunc(ctx, phone)
	}
	// Default behavior: seller 1
	return &domain.Actor{ID: 1, Role: domain.RoleSeller, Phone: phone}, nil
}

// FindByID finds a seller by ID
func (m *MockSellerRepository) FindByID(ctx context.Context, id uint) (*domain.Seller, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrActorNotFound
}

// List returns all sellers
func (m *MockSellerRepository) List(ctx context.Context) ([]*domain.Seller, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Seller{}, nil
}

// Delete removes a seller
func (m *MockSellerRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()

	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Deleted returns the ids passed to Delete
func (m *MockSellerRepository) Deleted() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint, len(m.deleted))
	copy(out, m.deleted)
	return out
}

// FindShopBySlug finds a shop
func (m *MockSellerRepository) FindShopBySlug(ctx context.Context, slug string) (*domain.Shop, error) {
	if m.FindShopBySlugFunc != nil {
		return m.FindShopBySlugFunc(ctx, slug)
	}
	// Default behavior: not found
	return nil, domain.ErrActorNotFound
}

// SaveShop stores a shop
func (m *MockSellerRepository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	if m.SaveShopFunc != nil {
		return m.SaveShopFunc(ctx, shop)
	}
	return nil
}

// MockAdminRepository implements domain.AdminRepository interface for testing
type MockAdminRepository struct {
	CreateFunc         func(ctx context.Context, admin *domain.Admin) error
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.Admin, error)
}

// NewMockAdminRepository creates a new MockAdminRepository with default behaviors
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{}
}

// Create creates an admin
func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	admin.ID = 1
	return nil
}

// FindByUsername finds an admin
func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrActorNotFound
}

// Compile-time interface compliance verification
var (
	_ domain.BuyerRepository  = (*MockBuyerRepository)(nil)
	_ domain.SellerRepository = (*MockSellerRepository)(nil)
	_ domain.AdminRepository  = (*MockAdminRepository)(nil)
)
