package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/storefront/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SellerRepositoryImpl implements domain.SellerRepository using GORM
type SellerRepositoryImpl struct {
	db *gorm.DB
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *gorm.DB) domain.SellerRepository {
	return &SellerRepositoryImpl{db: db}
}

// EnsureByPhone implements domain.ActorProvisioner
func (r *SellerRepositoryImpl) EnsureByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	db := r.db.WithContext(ctx)

	row := &DBSeller{Phone: phone}
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("upsert seller: %w: %v", domain.ErrStore, err)
	}

	var stored DBSeller
	if err := db.Where("phone = ?", phone).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("load seller: %w: %v", domain.ErrStore, err)
	}
	return &domain.Actor{ID: stored.ID, Role: domain.RoleSeller, Phone: stored.Phone}, nil
}

// FindByID implements domain.SellerRepository
func (r *SellerRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Seller, error) {
	var row DBSeller
	err := r.db.WithContext(ctx).Preload("Shop").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find seller: %w: %v", domain.ErrStore, err)
	}
	return sellerToDomain(&row), nil
}

// List implements domain.SellerRepository
func (r *SellerRepositoryImpl) List(ctx context.Context) ([]*domain.Seller, error) {
	var rows []DBSeller
	if err := r.db.WithContext(ctx).Preload("Shop").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sellers: %w: %v", domain.ErrStore, err)
	}
	sellers := make([]*domain.Seller, 0, len(rows))
	for i := range rows {
		sellers = append(sellers, sellerToDomain(&rows[i]))
	}
	return sellers, nil
}

// Delete implements domain.SellerRepository.
// Shops, products, orders and order items go with the row through ON DELETE CASCADE.
func (r *SellerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&DBSeller{}, id).Error; err != nil {
		return fmt.Errorf("delete seller: %w: %v", domain.ErrStore, err)
	}
	return nil
}

// FindShopBySlug implements domain.SellerRepository
func (r *SellerRepositoryImpl) FindShopBySlug(ctx context.Context, slug string) (*domain.Shop, error) {
	var row DBShop
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find shop: %w: %v", domain.ErrStore, err)
	}
	return shopToDomain(&row), nil
}

// SaveShop implements domain.SellerRepository; one shop per seller
func (r *SellerRepositoryImpl) SaveShop(ctx context.Context, shop *domain.Shop) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&DBShop{}).
			Where("slug = ? AND seller_id <> ?", shop.Slug, shop.SellerID).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("check slug: %w: %v", domain.ErrStore, err)
		}
		if taken > 0 {
			return domain.ErrSlugTaken
		}

		row := &DBShop{
			SellerID:   shop.SellerID,
			Slug:       shop.Slug,
			Name:       shop.Name,
			PickupInfo: shop.PickupInfo,
			ChatID:     shop.ChatID,
		}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"slug", "name", "pickup_info", "chat_id", "updated_at"}),
		}).Create(row).Error
		if err != nil {
			return fmt.Errorf("save shop: %w: %v", domain.ErrStore, err)
		}
		return nil
	})
}

func sellerToDomain(row *DBSeller) *domain.Seller {
	s := &domain.Seller{
		ID:        row.ID,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Shop != nil {
		s.Shop = shopToDomain(row.Shop)
	}
	return s
}

func shopToDomain(row *DBShop) *domain.Shop {
	return &domain.Shop{
		SellerID:   row.SellerID,
		Slug:       row.Slug,
		Name:       row.Name,
		PickupInfo: row.PickupInfo,
		ChatID:     row.ChatID,
		UpdatedAt:  row.UpdatedAt,
	}
}
