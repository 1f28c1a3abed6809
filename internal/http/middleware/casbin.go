package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/infrastructure/auth"
)

// CasbinMW checks the authenticated actor's role against the route policies
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
	audit    domain.AuditLogger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer, audit domain.AuditLogger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, audit: audit}
}

// Enforce returns the casbin authorization middleware. It must run after
// SessionMW.Require.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}

		// match against the route pattern (e.g. /admin/sellers/:id)
		obj := c.FullPath()
		if obj == "" {
			obj = c.Request.URL.Path
		}
		method := c.Request.Method

		allowed, err := mw.enforcer.Enforce(auth.Subject(actor.Role), obj, method)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", obj).Msg("authorization check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}

		if !allowed {
			mw.audit.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.AccessDeniedEvent, actor.Role).
				WithActor(actor.ID).
				WithMetadata("path", obj).
				WithMetadata("method", method))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
