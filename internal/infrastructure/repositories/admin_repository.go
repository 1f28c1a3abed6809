package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/storefront/domain"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements domain.AdminRepository using GORM
type AdminRepositoryImpl struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) domain.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

// Create implements domain.AdminRepository
func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *domain.Admin) error {
	row := &DBAdmin{Username: admin.Username, PasswordHash: admin.PasswordHash}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create admin: %w: %v", domain.ErrStore, err)
	}
	admin.ID = row.ID
	admin.CreatedAt = row.CreatedAt
	return nil
}

// FindByUsername implements domain.AdminRepository
func (r *AdminRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var row DBAdmin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find admin: %w: %v", domain.ErrStore, err)
	}
	return &domain.Admin{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}
