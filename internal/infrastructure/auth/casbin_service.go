package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/storefront/domain"
	"gorm.io/gorm"
)

// DefaultModel is used when no model file is configured
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are seeded into an empty policy table.
// Subjects are role_<role>; objects are gin route patterns.
var DefaultPolicies = [][]string{
	{"role_buyer", "/auth/buyer/me", "GET"},
	{"role_seller", "/auth/seller/me", "GET"},
	{"role_seller", "/seller/shop", "(GET|PUT)"},
	{"role_seller", "/seller/account", "DELETE"},
	{"role_admin", "/auth/admin/me", "GET"},
	{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
}

// Subject maps a role to its policy subject
func Subject(role domain.Role) string {
	return domain.PolicySubject(role)
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisting policies through the gorm adapter
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}

	E, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load casbin policy: %w", err)
	}
	return &CasbinService{E}, nil
}

// SeedDefaults adds DefaultPolicies when no policy exists yet.
// It reports whether anything was written.
func (c *CasbinService) SeedDefaults() (bool, error) {
	policies, err := c.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}
	for _, p := range DefaultPolicies {
		if _, err := c.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	return true, nil
}

func loadModel(path string) (model.Model, error) {
	if path == "" {
		m, err := model.NewModelFromString(DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse default casbin model: %w", err)
		}
		return m, nil
	}
	m, err := model.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model %s: %w", path, err)
	}
	return m, nil
}
