package repository

import (
	"context"

	"asset-tracker/internal/domain"
)

// AssetFilter carries the optional predicates and pagination window for a
// listing query. Zero-valued optional fields are omitted from the query.
type AssetFilter struct {
	UserID       int64
	Status       domain.AssetStatus
	DepartmentID *int64
	CategoryID   *int64
	Page         int
	Limit        int
}

// AssetRepository exposes persistence operations for Asset records.
// Write operations are scoped to the owning user and to non-deleted rows;
// a write that matches no row reports ErrNotFound.
type AssetRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, asset *domain.Asset) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	SoftDelete(ctx context.Context, id, userID int64) error
}
