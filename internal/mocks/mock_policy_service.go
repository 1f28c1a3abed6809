package mocks

import "github.com/you/storefront/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(sub, obj, act string) error
	RemovePolicyFunc    func(sub, obj, act string) error
	CheckPermissionFunc func(role domain.Role, obj, act string) (bool, error)
	GetPoliciesFunc     func() ([][]string, error)
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a new authorization policy
func (m *MockPolicyService) AddPolicy(sub, obj, act string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(sub, obj, act)
	}
	return nil
}

// RemovePolicy removes an authorization policy
func (m *MockPolicyService) RemovePolicy(sub, obj, act string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(sub, obj, act)
	}
	return nil
}

// CheckPermission checks if a role has permission for a route and method
func (m *MockPolicyService) CheckPermission(role domain.Role, obj, act string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, obj, act)
	}
	// Default behavior: only admins pass
	return role == domain.RoleAdmin, nil
}

// GetPolicies returns all current policies
func (m *MockPolicyService) GetPolicies() ([][]string, error) {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{
		{domain.PolicySubject(domain.RoleAdmin), "/admin/*", "(GET|POST|PUT|DELETE)"},
		{domain.PolicySubject(domain.RoleSeller), "/seller/account", "DELETE"},
	}, nil
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
