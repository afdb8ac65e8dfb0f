package purchases

import (
	"context"

	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
)

// Repository defines persistence operations for the purchases table.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Purchase, error)
	ListByPurchaser(ctx context.Context, purchaser string) ([]models.Purchase, error)
	ListFinalizedByPurchaser(ctx context.Context, purchaser string) ([]models.Purchase, error)
	Insert(ctx context.Context, purchase *models.Purchase) error
	Update(ctx context.Context, id string, updates map[string]any) (int64, error)
	Replace(ctx context.Context, purchase *models.Purchase) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) ListByPurchaser(ctx context.Context, purchaser string) ([]models.Purchase, error) {
	var found []models.Purchase
	err := r.db.WithContext(ctx).
		Where("purchaser = ?", purchaser).
		Order("time_created ASC").
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) ListFinalizedByPurchaser(ctx context.Context, purchaser string) ([]models.Purchase, error) {
	var found []models.Purchase
	err := r.db.WithContext(ctx).
		Where("purchaser = ? AND finalized = ?", purchaser, true).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) Insert(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Purchase{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Replace writes every column of the record. Used by finalize so the state
// flip and timestamp land together.
func (r *repository) Replace(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}
