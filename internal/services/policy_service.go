package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/storefront/domain"
)

// adminAPIRule is the grant that lets admins reach the policy endpoints themselves
var adminAPIRule = []string{domain.PolicySubject(domain.RoleAdmin), "/admin/*"}

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin.
// Rules are keyed by role subject, so a rule can never name a single actor.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// validateRule checks that sub names a role and obj is a route pattern
func validateRule(sub, obj, act string) error {
	if _, err := domain.RoleFromSubject(sub); err != nil {
		return fmt.Errorf("policy subject %q: %w", sub, err)
	}
	if !strings.HasPrefix(obj, "/") || strings.TrimSpace(act) == "" {
		return domain.ErrInvalidPolicy
	}
	return nil
}

// AddPolicy implements domain.PolicyService. Adding an existing rule is a no-op.
func (p *PolicyServiceImpl) AddPolicy(sub, obj, act string) error {
	if err := validateRule(sub, obj, act); err != nil {
		return err
	}
	added, err := p.enforcer.AddPolicy(sub, obj, act)
	if err != nil {
		return fmt.Errorf("add policy: %w: %w", domain.ErrStore, err)
	}
	if !added {
		return nil
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("save policy: %w: %w", domain.ErrStore, err)
	}
	return nil
}

// RemovePolicy implements domain.PolicyService. The admin API grant cannot be
// removed through the API it protects.
func (p *PolicyServiceImpl) RemovePolicy(sub, obj, act string) error {
	if err := validateRule(sub, obj, act); err != nil {
		return err
	}
	if sub == adminAPIRule[0] && obj == adminAPIRule[1] {
		return domain.ErrPolicyProtected
	}
	removed, err := p.enforcer.RemovePolicy(sub, obj, act)
	if err != nil {
		return fmt.Errorf("remove policy: %w: %w", domain.ErrStore, err)
	}
	if !removed {
		return nil
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("save policy: %w: %w", domain.ErrStore, err)
	}
	return nil
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role domain.Role, obj, act string) (bool, error) {
	if !role.Valid() {
		return false, domain.ErrInvalidRole
	}
	allowed, err := p.enforcer.Enforce(domain.PolicySubject(role), obj, act)
	if err != nil {
		return false, fmt.Errorf("enforce policy: %w", err)
	}
	return allowed, nil
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w: %w", domain.ErrStore, err)
	}
	return policies, nil
}
