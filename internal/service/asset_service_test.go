package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"asset-tracker/internal/domain"
	"asset-tracker/internal/repository"
	"asset-tracker/internal/repository/sqlite"
)

func newAssetServiceFixture(t *testing.T) (AssetService, int64) {
	t.Helper()
	db, err := sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	assets := sqlite.NewAssetRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, assets.Init(ctx))

	ownerID, err := users.Create(ctx, &domain.User{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$notarealhash",
		APIKey:       "key-alice",
	})
	require.NoError(t, err)

	return NewAssetService(assets), ownerID
}

func laptopFields() AssetFields {
	return AssetFields{
		AssetTag:     "TAG-1",
		Name:         "laptop",
		PurchaseDate: "2023-01-15",
		Value:        1200,
		Condition:    "good",
		Status:       domain.AssetStatusActive,
		Location:     "HQ",
		CategoryID:   1,
		DepartmentID: 2,
		AssignedTo:   "alice",
	}
}

func TestAssetServiceCreateRequiresUserID(t *testing.T) {
	svc, _ := newAssetServiceFixture(t)

	_, err := svc.Create(context.Background(), 0, laptopFields())
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssetServiceListRequiresUserID(t *testing.T) {
	svc, _ := newAssetServiceFixture(t)

	_, err := svc.List(context.Background(), repository.AssetFilter{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssetServiceLifecycle(t *testing.T) {
	svc, owner := newAssetServiceFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, laptopFields())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, owner, created.UserID)
	require.False(t, created.CreatedAt.IsZero())

	fields := laptopFields()
	fields.Name = "monitor"
	fields.AssignedTo = ""
	updated, err := svc.Update(ctx, created.ID, owner, fields)
	require.NoError(t, err)
	require.Equal(t, "monitor", updated.Name)
	require.Empty(t, updated.AssignedTo)

	require.NoError(t, svc.SoftDelete(ctx, created.ID, owner))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// A deleted asset is gone from the listing and from the write path.
	assets, err := svc.List(ctx, repository.AssetFilter{UserID: owner})
	require.NoError(t, err)
	require.Empty(t, assets)
	_, err = svc.Update(ctx, created.ID, owner, fields)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssetServiceUpdateUnknownAsset(t *testing.T) {
	svc, owner := newAssetServiceFixture(t)

	_, err := svc.Update(context.Background(), 9999, owner, laptopFields())
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, svc.SoftDelete(context.Background(), 9999, owner), repository.ErrNotFound)
}
