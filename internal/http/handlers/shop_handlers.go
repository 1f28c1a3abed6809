package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
)

// ShopHandlers serves storefront profiles
type ShopHandlers struct {
	shops domain.ShopService
}

// NewShopHandlers creates new shop handlers
func NewShopHandlers(shops domain.ShopService) *ShopHandlers {
	return &ShopHandlers{shops: shops}
}

// UpdateShopRequest represents a shop profile update
type UpdateShopRequest struct {
	Slug       string `json:"slug" binding:"required"`
	Name       string `json:"name" binding:"required,max=120"`
	PickupInfo string `json:"pickup_info" binding:"max=500"`
	ChatID     string `json:"chat_id" binding:"max=64"`
}

// GetPublic returns a shop by slug
func (h *ShopHandlers) GetPublic(c *gin.Context) {
	shop, err := h.shops.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "failed to load shop")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shopView(shop, false)})
}

// GetOwn returns the signed-in seller's shop
func (h *ShopHandlers) GetOwn(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	shop, err := h.shops.GetForSeller(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err, "failed to load shop")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shopView(shop, true)})
}

// UpdateOwn creates or updates the signed-in seller's shop
func (h *ShopHandlers) UpdateOwn(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := h.shops.Update(c.Request.Context(), actor.ID, &domain.Shop{
		Slug:       req.Slug,
		Name:       req.Name,
		PickupInfo: req.PickupInfo,
		ChatID:     req.ChatID,
	})
	if err != nil {
		respondError(c, err, "failed to save shop")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shopView(shop, true)})
}
