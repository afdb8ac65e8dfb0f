package items

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	"github.com/skeldnet/cosmetics-backend/pkg/enums"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

// amongUsIDBase seeds the catalog id sequence; ids below it belong to the
// game's built-in cosmetics.
const amongUsIDBase int64 = 10_000_000

// Service exposes item reads and authorized writes.
type Service interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	GetByAmongUsID(ctx context.Context, amongUsID int64) (*models.Item, error)
	Create(ctx context.Context, input CreateItemInput) (*models.Item, error)
	Update(ctx context.Context, id string, input UpdateItemInput) error
}

// CreateItemInput carries a validated full item payload. AmongUsID is
// always server-assigned; callers cannot supply one.
type CreateItemInput struct {
	ID        string
	Name      string
	Type      enums.ItemType
	Resource  types.ItemResource
	Thumbnail string
	Author    string
}

// UpdateItemInput carries a validated partial payload; nil fields stay
// untouched.
type UpdateItemInput struct {
	Name      *string
	Type      *enums.ItemType
	Resource  *types.ItemResource
	Thumbnail *string
	Author    *string
}

type service struct {
	repo Repository
}

// NewService builds an item service over the given repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Failed to find item with ID: %s", id))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) GetByAmongUsID(ctx context.Context, amongUsID int64) (*models.Item, error) {
	item, err := s.repo.FindByAmongUsID(ctx, amongUsID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Failed to find item with amongUsId: %d", amongUsID))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

// Create assigns the next catalog id and inserts. The max read and the
// insert are two statements; concurrent creators can race and the unique
// index turns the loser into a store error. Item creation is an operator
// action, effectively single-writer.
func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	maxID, any, err := s.repo.MaxAmongUsID(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Internal Server Error: failed to allocate item id")
	}

	nextID := amongUsIDBase
	if any {
		nextID = maxID + 1
	}

	item := &models.Item{
		ID:        input.ID,
		Name:      input.Name,
		AmongUsID: nextID,
		Type:      input.Type,
		Resource:  input.Resource,
		Thumbnail: input.Thumbnail,
		Author:    input.Author,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to add item to database %v", err))
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateItemInput) error {
	updates := input.toUpdates()
	if len(updates) == 0 {
		return nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to update item in database %v", err))
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Failed to find item with ID: %s", id))
	}
	return nil
}

func (u UpdateItemInput) toUpdates() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Type != nil {
		updates["type"] = *u.Type
	}
	if u.Resource != nil {
		updates["resource"] = *u.Resource
	}
	if u.Thumbnail != nil {
		updates["thumbnail"] = *u.Thumbnail
	}
	if u.Author != nil {
		updates["author"] = *u.Author
	}
	return updates
}
