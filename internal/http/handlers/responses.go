package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
)

// persistentCookieAge is used for sessions without expiry; browsers cap
// cookie lifetime at 400 days anyway
const persistentCookieAge = 400 * 24 * 60 * 60

// CookieConfig controls the attributes of session cookies
type CookieConfig struct {
	Domain string
	Secure bool
}

func (cfg CookieConfig) set(c *gin.Context, cred *domain.ClientCredential) {
	maxAge := persistentCookieAge
	if cred.ExpiresAt != nil {
		maxAge = int(time.Until(*cred.ExpiresAt).Seconds())
		if maxAge < 1 {
			maxAge = 1
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName(cred.Role), domain.EncodeCredential(cred), maxAge, "/", cfg.Domain, cfg.Secure, true)
}

func (cfg CookieConfig) clear(c *gin.Context, role domain.Role) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName(role), "", -1, "/", cfg.Domain, cfg.Secure, true)
}

// respondError maps service errors onto status codes; anything unknown is a 500
func respondError(c *gin.Context, err error, msg string) {
	var throttle *domain.ThrottleError
	switch {
	case errors.As(err, &throttle):
		wait := int(math.Ceil(throttle.Wait.Seconds()))
		c.Header("Retry-After", strconv.Itoa(wait))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "code requested too recently", "retry_after": wait})
	case domain.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSlugTaken), errors.Is(err, domain.ErrPolicyProtected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrActorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case domain.IsStoreError(err):
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func actorView(a *domain.Actor) gin.H {
	view := gin.H{"id": a.ID, "role": a.Role}
	if a.Phone != "" {
		view["phone"] = a.Phone
	}
	if a.Username != "" {
		view["username"] = a.Username
	}
	return view
}

// shopView renders a shop; the chat id is only shown to its owner
func shopView(s *domain.Shop, owner bool) gin.H {
	view := gin.H{
		"seller_id":   s.SellerID,
		"slug":        s.Slug,
		"name":        s.Name,
		"pickup_info": s.PickupInfo,
		"updated_at":  s.UpdatedAt,
	}
	if owner {
		view["chat_id"] = s.ChatID
	}
	return view
}

func sellerView(s *domain.Seller) gin.H {
	view := gin.H{
		"id":         s.ID,
		"phone":      s.Phone,
		"created_at": s.CreatedAt,
	}
	if s.Shop != nil {
		view["shop"] = shopView(s.Shop, false)
	}
	return view
}
