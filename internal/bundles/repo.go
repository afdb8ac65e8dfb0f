package bundles

import (
	"context"

	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
)

// Repository defines persistence operations for the bundles table.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Bundle, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Bundle, error)
	ListForSale(ctx context.Context) ([]models.Bundle, error)
	Insert(ctx context.Context, bundle *models.Bundle) error
	Update(ctx context.Context, id string, updates map[string]any) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bundles repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Bundle, error) {
	var bundle models.Bundle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&bundle).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]models.Bundle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Bundle
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) ListForSale(ctx context.Context) ([]models.Bundle, error) {
	var bundles []models.Bundle
	err := r.db.WithContext(ctx).
		Where("for_sale = ?", true).
		Order("created_at ASC").
		Find(&bundles).Error
	if err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *repository) Insert(ctx context.Context, bundle *models.Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Bundle{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}
