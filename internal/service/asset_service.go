package service

import (
	"context"
	"fmt"

	"asset-tracker/internal/domain"
	"asset-tracker/internal/repository"
)

// AssetFields is the full set of caller-supplied asset attributes. Create and
// Update both take the complete set; Update is a full replace, not a merge.
type AssetFields struct {
	AssetTag         string
	Name             string
	PurchaseDate     string
	Value            float64
	Condition        string
	Status           domain.AssetStatus
	WarrantyExpiry   string
	WarrantyProvider string
	Location         string
	CategoryID       int64
	DepartmentID     int64
	AssignedTo       string
}

// AssetService coordinates asset lifecycle operations. Write operations are
// scoped to the acting owner; a missing or foreign target reports
// repository.ErrNotFound without revealing which.
type AssetService interface {
	List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error)
	Get(ctx context.Context, id int64) (*domain.Asset, error)
	Create(ctx context.Context, userID int64, fields AssetFields) (*domain.Asset, error)
	Update(ctx context.Context, id, userID int64, fields AssetFields) (*domain.Asset, error)
	SoftDelete(ctx context.Context, id, userID int64) error
}

type assetService struct {
	assets repository.AssetRepository
}

func NewAssetService(assets repository.AssetRepository) AssetService {
	return &assetService{assets: assets}
}

func (s *assetService) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	if filter.UserID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return s.assets.List(ctx, filter)
}

func (s *assetService) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.assets.Get(ctx, id)
}

func (s *assetService) Create(ctx context.Context, userID int64, fields AssetFields) (*domain.Asset, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	asset := applyFields(&domain.Asset{UserID: userID}, fields)
	if _, err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Update(ctx context.Context, id, userID int64, fields AssetFields) (*domain.Asset, error) {
	asset := applyFields(&domain.Asset{ID: id, UserID: userID}, fields)
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	// Re-read so the caller sees the stored representation with timestamps.
	return s.assets.Get(ctx, id)
}

func (s *assetService) SoftDelete(ctx context.Context, id, userID int64) error {
	return s.assets.SoftDelete(ctx, id, userID)
}

func applyFields(asset *domain.Asset, fields AssetFields) *domain.Asset {
	asset.AssetTag = fields.AssetTag
	asset.Name = fields.Name
	asset.PurchaseDate = fields.PurchaseDate
	asset.Value = fields.Value
	asset.Condition = fields.Condition
	asset.Status = fields.Status
	asset.WarrantyExpiry = fields.WarrantyExpiry
	asset.WarrantyProvider = fields.WarrantyProvider
	asset.Location = fields.Location
	asset.CategoryID = fields.CategoryID
	asset.DepartmentID = fields.DepartmentID
	asset.AssignedTo = fields.AssignedTo
	return asset
}
