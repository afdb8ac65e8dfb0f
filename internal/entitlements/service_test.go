package entitlements

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/internal/bundles"
	"github.com/skeldnet/cosmetics-backend/internal/items"
	"github.com/skeldnet/cosmetics-backend/internal/purchases"
	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	"github.com/skeldnet/cosmetics-backend/pkg/enums"
)

func setupEntitlementsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Item{}, &models.Bundle{}, &models.Purchase{}))
	return db
}

func newEntitlementsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupEntitlementsTestDB(t)
	svc, err := NewService(
		purchases.NewRepository(db),
		bundles.NewRepository(db),
		items.NewRepository(db),
	)
	require.NoError(t, err)
	return svc, db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	for i, id := range []string{"hat1", "pet1", "skin1"} {
		require.NoError(t, db.Create(&models.Item{
			ID:        id,
			Name:      id,
			AmongUsID: int64(10_000_000 + i),
			Type:      enums.ItemTypeHat,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Bundle{
		ID: "bundleA", Name: "A", KeyArtURL: "u", Color: "#fff",
		Items: []string{"hat1", "pet1"}, PriceUsd: 100, Description: "d", ForSale: true,
	}).Error)
	require.NoError(t, db.Create(&models.Bundle{
		ID: "bundleB", Name: "B", KeyArtURL: "u", Color: "#fff",
		Items: []string{"pet1", "skin1"}, PriceUsd: 100, Description: "d", ForSale: true,
	}).Error)
}

func seedPurchase(t *testing.T, db *gorm.DB, id, bundleID, purchaser string, finalized bool) {
	t.Helper()
	timeFinalized := models.TimeFinalizedSentinel
	if finalized {
		timeFinalized = 1_700_000_000_000
	}
	require.NoError(t, db.Create(&models.Purchase{
		ID:            id,
		BundleID:      bundleID,
		Cost:          100,
		Purchaser:     purchaser,
		TimeCreated:   1_699_999_999_999,
		TimeFinalized: timeFinalized,
		Finalized:     finalized,
	}).Error)
}

func TestOwnedItemsUnionsFinalizedBundles(t *testing.T) {
	svc, db := newEntitlementsService(t)
	seedCatalog(t, db)
	seedPurchase(t, db, "p1", "bundleA", "user-1", true)
	seedPurchase(t, db, "p2", "bundleB", "user-1", true)

	owned, err := svc.OwnedItems(context.Background(), "user-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(owned))
	for _, item := range owned {
		ids = append(ids, item.ID)
	}
	require.ElementsMatch(t, []string{"hat1", "pet1", "skin1"}, ids)
}

func TestOwnedItemsIgnoresPendingPurchases(t *testing.T) {
	svc, db := newEntitlementsService(t)
	seedCatalog(t, db)
	seedPurchase(t, db, "p1", "bundleA", "user-1", false)

	owned, err := svc.OwnedItems(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestOwnedItemsIgnoresOtherUsers(t *testing.T) {
	svc, db := newEntitlementsService(t)
	seedCatalog(t, db)
	seedPurchase(t, db, "p1", "bundleA", "user-2", true)

	owned, err := svc.OwnedItems(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestOwnedItemsDropsDeletedBundlesAndItems(t *testing.T) {
	svc, db := newEntitlementsService(t)
	seedCatalog(t, db)
	seedPurchase(t, db, "p1", "bundleA", "user-1", true)
	seedPurchase(t, db, "p2", "gone-bundle", "user-1", true)

	require.NoError(t, db.Delete(&models.Item{ID: "pet1"}).Error)

	owned, err := svc.OwnedItems(context.Background(), "user-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(owned))
	for _, item := range owned {
		ids = append(ids, item.ID)
	}
	require.ElementsMatch(t, []string{"hat1"}, ids)
}
