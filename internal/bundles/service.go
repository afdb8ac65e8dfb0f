package bundles

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	dbtypes "github.com/skeldnet/cosmetics-backend/pkg/db/types"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

// ItemSource resolves item ids during the read-time bundle join.
type ItemSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Item, error)
}

// ExpandedBundle is a bundle with its item-id list resolved to item rows.
// Ids with no matching item come back as null entries, not errors.
type ExpandedBundle struct {
	models.Bundle
	Items []*models.Item `json:"items"`
}

// Service exposes bundle reads, the for-sale listing and authorized writes.
type Service interface {
	Get(ctx context.Context, id string) (*models.Bundle, error)
	ListForSale(ctx context.Context) ([]ExpandedBundle, error)
	Create(ctx context.Context, input CreateBundleInput) (*models.Bundle, error)
	Update(ctx context.Context, id string, input UpdateBundleInput) error
}

// CreateBundleInput carries a validated full bundle payload.
type CreateBundleInput struct {
	ID          string
	Name        string
	KeyArtURL   string
	Color       string
	Items       []string
	PriceUsd    int64
	Description string
	ForSale     bool
	Recurring   *bool
	DiscordRole *string
}

// UpdateBundleInput carries a validated partial payload.
type UpdateBundleInput struct {
	Name        *string
	KeyArtURL   *string
	Color       *string
	Items       *[]string
	PriceUsd    *int64
	Description *string
	ForSale     *bool
	Recurring   *bool
	DiscordRole *string
}

type service struct {
	repo  Repository
	items ItemSource
}

// NewService builds a bundle service over the given repository and item
// source.
func NewService(repo Repository, items ItemSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bundles repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item source required")
	}
	return &service{repo: repo, items: items}, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Bundle, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Failed to find bundle with ID: %s", id))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bundle")
	}
	return bundle, nil
}

// ListForSale returns publicly listed bundles with their items expanded.
// Hidden bundles stay fetchable and purchasable by id.
func (s *service) ListForSale(ctx context.Context) ([]ExpandedBundle, error) {
	listed, err := s.repo.ListForSale(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bundles")
	}

	ids := make([]string, 0)
	seen := map[string]struct{}{}
	for _, bundle := range listed {
		for _, itemID := range bundle.Items {
			if _, ok := seen[itemID]; ok {
				continue
			}
			seen[itemID] = struct{}{}
			ids = append(ids, itemID)
		}
	}

	found, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve bundle items")
	}
	byID := make(map[string]*models.Item, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	expanded := make([]ExpandedBundle, 0, len(listed))
	for _, bundle := range listed {
		resolved := make([]*models.Item, len(bundle.Items))
		for i, itemID := range bundle.Items {
			resolved[i] = byID[itemID]
		}
		expanded = append(expanded, ExpandedBundle{Bundle: bundle, Items: resolved})
	}

	return expanded, nil
}

func (s *service) Create(ctx context.Context, input CreateBundleInput) (*models.Bundle, error) {
	bundle := &models.Bundle{
		ID:          input.ID,
		Name:        input.Name,
		KeyArtURL:   input.KeyArtURL,
		Color:       input.Color,
		Items:       dbtypes.StringArray(input.Items),
		PriceUsd:    input.PriceUsd,
		Description: input.Description,
		ForSale:     input.ForSale,
		Recurring:   input.Recurring,
		DiscordRole: input.DiscordRole,
	}

	if err := s.repo.Insert(ctx, bundle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to add bundle to database %v", err))
	}
	return bundle, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateBundleInput) error {
	updates := input.toUpdates()
	if len(updates) == 0 {
		return nil
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to update bundle in database %v", err))
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Failed to find bundle with ID: %s", id))
	}
	return nil
}

func (u UpdateBundleInput) toUpdates() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.KeyArtURL != nil {
		updates["key_art_url"] = *u.KeyArtURL
	}
	if u.Color != nil {
		updates["color"] = *u.Color
	}
	if u.Items != nil {
		updates["items"] = dbtypes.StringArray(*u.Items)
	}
	if u.PriceUsd != nil {
		updates["price_usd"] = *u.PriceUsd
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ForSale != nil {
		updates["for_sale"] = *u.ForSale
	}
	if u.Recurring != nil {
		updates["recurring"] = *u.Recurring
	}
	if u.DiscordRole != nil {
		updates["discord_role"] = *u.DiscordRole
	}
	return updates
}
