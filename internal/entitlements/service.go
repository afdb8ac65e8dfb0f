package entitlements

import (
	"context"
	"fmt"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

// PurchaseSource yields the finalized purchases of a user.
type PurchaseSource interface {
	ListFinalizedByPurchaser(ctx context.Context, purchaser string) ([]models.Purchase, error)
}

// BundleSource resolves bundle ids to bundle rows.
type BundleSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Bundle, error)
}

// ItemSource resolves item ids to item rows.
type ItemSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Item, error)
}

// Service answers "which items does this user own". Ownership flows from
// finalized purchases through their bundles to the bundles' items.
type Service interface {
	OwnedItems(ctx context.Context, userID string) ([]models.Item, error)
}

type service struct {
	purchases PurchaseSource
	bundles   BundleSource
	items     ItemSource
}

// NewService builds the entitlement resolver over its three sources.
func NewService(purchases PurchaseSource, bundles BundleSource, items ItemSource) (Service, error) {
	if purchases == nil {
		return nil, fmt.Errorf("purchase source required")
	}
	if bundles == nil {
		return nil, fmt.Errorf("bundle source required")
	}
	if items == nil {
		return nil, fmt.Errorf("item source required")
	}
	return &service{purchases: purchases, bundles: bundles, items: items}, nil
}

// OwnedItems walks finalized purchases -> bundles -> items. Deleted bundles
// and deleted items simply drop out of the result; pending purchases grant
// nothing.
func (s *service) OwnedItems(ctx context.Context, userID string) ([]models.Item, error) {
	finalized, err := s.purchases.ListFinalizedByPurchaser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list finalized purchases")
	}

	bundleIDs := make([]string, 0, len(finalized))
	for _, purchase := range finalized {
		bundleIDs = append(bundleIDs, purchase.BundleID)
	}

	bundles, err := s.bundles.FindByIDs(ctx, dedupe(bundleIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve bundles")
	}

	itemIDs := make([]string, 0)
	for _, bundle := range bundles {
		itemIDs = append(itemIDs, bundle.Items...)
	}

	owned, err := s.items.FindByIDs(ctx, dedupe(itemIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve items")
	}
	if owned == nil {
		owned = []models.Item{}
	}
	return owned, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
