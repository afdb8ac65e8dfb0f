package items

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	"github.com/skeldnet/cosmetics-backend/pkg/enums"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

func setupItemsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Item{}))
	return db
}

func newItemsService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(setupItemsTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateAssignsBaseIDWhenEmpty(t *testing.T) {
	svc, _ := newItemsService(t)

	item, err := svc.Create(context.Background(), CreateItemInput{
		ID:       "tophat",
		Name:     "Top Hat",
		Type:     enums.ItemTypeHat,
		Resource: types.ItemResource{URL: "https://cdn.example/tophat", ID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, int64(10_000_000), item.AmongUsID)
}

func TestCreateAssignsMonotonicIDsAcrossTypes(t *testing.T) {
	svc, _ := newItemsService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateItemInput{ID: "hat1", Name: "Hat", Type: enums.ItemTypeHat})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateItemInput{ID: "pet1", Name: "Pet", Type: enums.ItemTypePet})
	require.NoError(t, err)
	third, err := svc.Create(ctx, CreateItemInput{ID: "skin1", Name: "Skin", Type: enums.ItemTypeSkin})
	require.NoError(t, err)

	require.Equal(t, first.AmongUsID+1, second.AmongUsID)
	require.Equal(t, second.AmongUsID+1, third.AmongUsID)
}

func TestGetByAmongUsID(t *testing.T) {
	svc, _ := newItemsService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{ID: "hat1", Name: "Hat", Type: enums.ItemTypeHat})
	require.NoError(t, err)

	found, err := svc.GetByAmongUsID(ctx, created.AmongUsID)
	require.NoError(t, err)
	require.Equal(t, "hat1", found.ID)
}

func TestGetMissingItem(t *testing.T) {
	svc, _ := newItemsService(t)

	_, err := svc.Get(context.Background(), "nope")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Failed to find item with ID: nope", typed.Message())
}

func TestUpdatePartial(t *testing.T) {
	svc, repo := newItemsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemInput{ID: "hat1", Name: "Hat", Type: enums.ItemTypeHat, Author: "polus"})
	require.NoError(t, err)

	newName := "Fancy Hat"
	require.NoError(t, svc.Update(ctx, "hat1", UpdateItemInput{Name: &newName}))

	found, err := repo.FindByID(ctx, "hat1")
	require.NoError(t, err)
	require.Equal(t, "Fancy Hat", found.Name)
	require.Equal(t, "polus", found.Author)
}

func TestUpdateMissingItem(t *testing.T) {
	svc, _ := newItemsService(t)

	name := "x"
	err := svc.Update(context.Background(), "nope", UpdateItemInput{Name: &name})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateDuplicateIDSurfacesDependencyError(t *testing.T) {
	svc, _ := newItemsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemInput{ID: "hat1", Name: "Hat", Type: enums.ItemTypeHat})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateItemInput{ID: "hat1", Name: "Again", Type: enums.ItemTypeHat})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
