package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
)

// AuthHandlers handles sign-in, sign-out and identity requests for all roles
type AuthHandlers struct {
	otpSvc  domain.OTPService
	gates   map[domain.Role]domain.RoleGate
	admins  domain.AdminAuthService
	shops   domain.ShopService
	cookies CookieConfig
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(otpSvc domain.OTPService, gates map[domain.Role]domain.RoleGate, admins domain.AdminAuthService, shops domain.ShopService, cookies CookieConfig) *AuthHandlers {
	return &AuthHandlers{
		otpSvc:  otpSvc,
		gates:   gates,
		admins:  admins,
		shops:   shops,
		cookies: cookies,
	}
}

// OTPRequest represents an OTP issue request
type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// OTPVerifyRequest represents OTP verification request
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// AdminLoginRequest represents admin login request
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestOTP sends a fresh code to the phone, replacing any earlier one
func (h *AuthHandlers) RequestOTP(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		issue, err := h.otpSvc.Issue(c.Request.Context(), req.Phone, role)
		if err != nil {
			respondError(c, err, "failed to issue code")
			return
		}

		data := gin.H{
			"message":    "code sent",
			"expires_at": issue.ExpiresAt,
		}
		if issue.Code != "" {
			data["code"] = issue.Code
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// VerifyOTP checks the code and opens a session for the phone's actor
func (h *AuthHandlers) VerifyOTP(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OTPVerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		actor, err := h.otpSvc.Verify(ctx, req.Phone, role, req.Code)
		if err != nil {
			if domain.IsVerificationFailure(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
				return
			}
			respondError(c, err, "failed to verify code")
			return
		}

		if !h.openSession(c, actor) {
			return
		}

		if role == domain.RoleSeller {
			h.shops.NotifySignIn(ctx, actor.ID)
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"actor": actorView(actor)}})
	}
}

// AdminLogin checks admin credentials and opens an admin session
func (h *AuthHandlers) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, cred, err := h.admins.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err, "login failed")
		return
	}

	h.cookies.set(c, cred)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"actor": actorView(actor)}})
}

// Logout ends the role's session. Without a valid session it still succeeds.
func (h *AuthHandlers) Logout(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		gate, ok := h.gates[role]
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}

		if err := gate.Logout(c.Request.Context(), middleware.Credential(c, role)); err != nil {
			// The session is still live server side. Reporting success and
			// dropping the cookie would leave a valid token behind that the
			// client can no longer revoke, so keep the cookie for a retry.
			respondError(c, err, "logout failed")
			return
		}

		h.cookies.clear(c, role)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "logged out"}})
	}
}

// Me returns the authenticated actor
func (h *AuthHandlers) Me(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": actorView(actor)})
}

func (h *AuthHandlers) openSession(c *gin.Context, actor *domain.Actor) bool {
	gate, ok := h.gates[actor.Role]
	if !ok {
		zerolog.Ctx(c.Request.Context()).Error().Str("role", string(actor.Role)).Msg("no session gate for role")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return false
	}

	cred, err := gate.IssueSession(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "failed to open session")
		return false
	}

	h.cookies.set(c, cred)
	return true
}
