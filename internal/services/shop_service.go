package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/you/storefront/domain"
)

// ShopServiceImpl implements domain.ShopService
type ShopServiceImpl struct {
	sellers domain.SellerRepository
	sender  domain.NotificationSender
}

// NewShopService creates a new shop profile service
func NewShopService(sellers domain.SellerRepository, sender domain.NotificationSender) domain.ShopService {
	return &ShopServiceImpl{sellers: sellers, sender: sender}
}

// GetBySlug implements domain.ShopService
func (s *ShopServiceImpl) GetBySlug(ctx context.Context, slug string) (*domain.Shop, error) {
	if err := domain.ValidateSlug(slug); err != nil {
		return nil, err
	}
	return s.sellers.FindShopBySlug(ctx, slug)
}

// GetForSeller implements domain.ShopService
func (s *ShopServiceImpl) GetForSeller(ctx context.Context, sellerID uint) (*domain.Shop, error) {
	seller, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Shop == nil {
		return nil, domain.ErrActorNotFound
	}
	return seller.Shop, nil
}

// Update implements domain.ShopService
func (s *ShopServiceImpl) Update(ctx context.Context, sellerID uint, shop *domain.Shop) (*domain.Shop, error) {
	slug := strings.ToLower(strings.TrimSpace(shop.Slug))
	if err := domain.ValidateSlug(slug); err != nil {
		return nil, err
	}

	next := &domain.Shop{
		SellerID:   sellerID,
		Slug:       slug,
		Name:       strings.TrimSpace(shop.Name),
		PickupInfo: strings.TrimSpace(shop.PickupInfo),
		ChatID:     strings.TrimSpace(shop.ChatID),
	}
	if err := s.sellers.SaveShop(ctx, next); err != nil {
		return nil, err
	}
	return s.sellers.FindShopBySlug(ctx, slug)
}

// ListSellers implements domain.ShopService
func (s *ShopServiceImpl) ListSellers(ctx context.Context) ([]*domain.Seller, error) {
	return s.sellers.List(ctx)
}

// NotifySignIn implements domain.ShopService
func (s *ShopServiceImpl) NotifySignIn(ctx context.Context, sellerID uint) {
	logger := zerolog.Ctx(ctx)

	seller, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		logger.Warn().Err(err).Uint("seller_id", sellerID).Msg("sign-in notice skipped")
		return
	}
	if seller.Shop == nil || seller.Shop.ChatID == "" {
		return
	}

	message := fmt.Sprintf("New sign-in to your shop %q. If this was not you, contact support.", seller.Shop.Name)
	if err := s.sender.Send(ctx, domain.Destination{Channel: domain.ChannelChat, Address: seller.Shop.ChatID}, message); err != nil {
		logger.Warn().Err(err).Uint("seller_id", sellerID).Msg("sign-in notice failed")
	}
}
