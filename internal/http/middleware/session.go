package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/storefront/domain"
)

const (
	actorKey      = "actor"
	credentialKey = "credential"
)

// CookieName returns the session cookie for a role
func CookieName(role domain.Role) string {
	return string(role) + "_session"
}

// Credential reads the role's session cookie. A missing or malformed cookie
// yields nil.
func Credential(c *gin.Context, role domain.Role) *domain.ClientCredential {
	value, err := c.Cookie(CookieName(role))
	if err != nil || value == "" {
		return nil
	}
	cred, err := domain.DecodeCredential(role, value)
	if err != nil {
		return nil
	}
	return cred
}

// SessionMW guards routes with the per-role session gates
type SessionMW struct {
	gates map[domain.Role]domain.RoleGate
}

// NewSessionMW creates the session middleware
func NewSessionMW(gates map[domain.Role]domain.RoleGate) *SessionMW {
	return &SessionMW{gates: gates}
}

// Require lets the request through only with a valid session for role.
// Every failure gets the same response.
func (mw *SessionMW) Require(role domain.Role) gin.HandlerFunc {
	gate := mw.gates[role]

	return func(c *gin.Context) {
		if gate == nil {
			unauthorized(c)
			return
		}

		cred := Credential(c, role)
		res := gate.Validate(c.Request.Context(), cred)
		if !res.Authenticated || res.Actor == nil {
			unauthorized(c)
			return
		}

		c.Set(actorKey, res.Actor)
		c.Set(credentialKey, cred)
		c.Next()
	}
}

// ActorFrom returns the actor placed by Require
func ActorFrom(c *gin.Context) (*domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*domain.Actor)
	return actor, ok && actor != nil
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
