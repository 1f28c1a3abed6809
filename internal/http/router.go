package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/handlers"
	"github.com/you/storefront/internal/http/middleware"
)

// Routes bundles everything BuildRouter wires together
type Routes struct {
	Auth     *handlers.AuthHandlers
	Accounts *handlers.AccountHandlers
	Shops    *handlers.ShopHandlers
	Policies *handlers.PolicyHandlers
	Sessions *middleware.SessionMW
	Casbin   *middleware.CasbinMW
	Logger   zerolog.Logger
}

func BuildRouter(rt Routes) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(rt.Logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	for _, role := range []domain.Role{domain.RoleBuyer, domain.RoleSeller} {
		auth.POST("/"+string(role)+"/otp/request", rt.Auth.RequestOTP(role))
		auth.POST("/"+string(role)+"/otp/verify", rt.Auth.VerifyOTP(role))
	}
	for _, role := range domain.Roles {
		// logout works without a valid session, so it sits outside the guard
		auth.POST("/"+string(role)+"/logout", rt.Auth.Logout(role))
		auth.GET("/"+string(role)+"/me", rt.Sessions.Require(role), rt.Casbin.Enforce(), rt.Auth.Me)
	}

	r.GET("/shops/:slug", rt.Shops.GetPublic)

	seller := r.Group("/seller", rt.Sessions.Require(domain.RoleSeller), rt.Casbin.Enforce())
	seller.GET("/shop", rt.Shops.GetOwn)
	seller.PUT("/shop", rt.Shops.UpdateOwn)
	seller.DELETE("/account", rt.Accounts.DeleteOwnAccount)

	r.POST("/admin/login", rt.Auth.AdminLogin)

	adm := r.Group("/admin", rt.Sessions.Require(domain.RoleAdmin), rt.Casbin.Enforce())
	adm.GET("/sellers", rt.Accounts.ListSellers)
	adm.DELETE("/sellers/:id", rt.Accounts.DeleteSeller)
	adm.GET("/policies", rt.Policies.List)
	adm.POST("/policies", rt.Policies.Add)
	adm.DELETE("/policies", rt.Policies.Remove)

	return r
}
