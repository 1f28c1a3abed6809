package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
)

// AccountHandlers handles seller account removal
type AccountHandlers struct {
	accounts domain.AccountService
	shops    domain.ShopService
	cookies  CookieConfig
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(accounts domain.AccountService, shops domain.ShopService, cookies CookieConfig) *AccountHandlers {
	return &AccountHandlers{accounts: accounts, shops: shops, cookies: cookies}
}

// DeleteOwnAccount removes the signed-in seller. The cookie is only cleared
// once the account is gone.
func (h *AccountHandlers) DeleteOwnAccount(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.Role != domain.RoleSeller {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accounts.DeleteSellerAccount(c.Request.Context(), actor); err != nil {
		respondError(c, err, "failed to delete account")
		return
	}

	h.cookies.clear(c, domain.RoleSeller)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "account deleted"}})
}

// ListSellers returns every seller for admins
func (h *AccountHandlers) ListSellers(c *gin.Context) {
	sellers, err := h.shops.ListSellers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list sellers")
		return
	}

	out := make([]gin.H, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, sellerView(s))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// DeleteSeller removes a seller on behalf of an admin
func (h *AccountHandlers) DeleteSeller(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller id"})
		return
	}

	if err := h.accounts.DeleteSellerByID(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err, "failed to delete seller")
		return
	}

	c.Status(http.StatusNoContent)
}
