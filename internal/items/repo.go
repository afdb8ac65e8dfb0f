package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
)

// Repository defines persistence operations for the items table.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
	FindByAmongUsID(ctx context.Context, amongUsID int64) (*models.Item, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Item, error)
	MaxAmongUsID(ctx context.Context) (int64, bool, error)
	Insert(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, id string, updates map[string]any) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an items repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByAmongUsID(ctx context.Context, amongUsID int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("among_us_id = ?", amongUsID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// MaxAmongUsID returns the highest assigned catalog id across every item
// type. The bool reports whether any item exists at all.
func (r *repository) MaxAmongUsID(ctx context.Context) (int64, bool, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Order("among_us_id DESC").Limit(1).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return item.AmongUsID, true, nil
}

func (r *repository) Insert(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}
