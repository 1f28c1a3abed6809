package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/storefront/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuyerRepositoryImpl implements domain.BuyerRepository using GORM
type BuyerRepositoryImpl struct {
	db *gorm.DB
}

// NewBuyerRepository creates a new buyer repository
func NewBuyerRepository(db *gorm.DB) domain.BuyerRepository {
	return &BuyerRepositoryImpl{db: db}
}

// EnsureByPhone implements domain.ActorProvisioner.
// The insert is keyed on the unique phone so retries never create a second buyer.
func (r *BuyerRepositoryImpl) EnsureByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	db := r.db.WithContext(ctx)

	row := &DBBuyer{Phone: phone}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("upsert buyer: %w: %v", domain.ErrStore, err)
	}

	var stored DBBuyer
	if err := db.Where("phone = ?", phone).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("load buyer: %w: %v", domain.ErrStore, err)
	}
	return &domain.Actor{ID: stored.ID, Role: domain.RoleBuyer, Phone: stored.Phone}, nil
}

// FindByID implements domain.BuyerRepository
func (r *BuyerRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Buyer, error) {
	var row DBBuyer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find buyer: %w: %v", domain.ErrStore, err)
	}
	return &domain.Buyer{
		ID:        row.ID,
		Phone:     row.Phone,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
