package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-tracker/internal/domain"
	"asset-tracker/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

const createAssetsTable = `
CREATE TABLE IF NOT EXISTS assets (
	asset_id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_tag TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	purchase_date TEXT NOT NULL DEFAULT '',
	value REAL NOT NULL DEFAULT 0,
	condition TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	warranty_expiry TEXT NOT NULL DEFAULT '',
	warranty_provider TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL DEFAULT 0,
	department_id INTEGER NOT NULL DEFAULT 0,
	assigned_to TEXT NOT NULL DEFAULT '',
	user_id INTEGER NOT NULL REFERENCES users(id),
	is_deleted INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const assetColumns = `asset_id, asset_tag, name, purchase_date, value, condition, status, warranty_expiry, warranty_provider, location, category_id, department_id, assigned_to, user_id, is_deleted, created_at, updated_at`

type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAssetsTable); err != nil {
		return fmt.Errorf("create assets table: %w", err)
	}
	return nil
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) (int64, error) {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO assets (asset_tag, name, purchase_date, value, condition, status, warranty_expiry, warranty_provider, location, category_id, department_id, assigned_to, user_id, is_deleted, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.AssetTag,
		asset.Name,
		asset.PurchaseDate,
		asset.Value,
		asset.Condition,
		string(asset.Status),
		asset.WarrantyExpiry,
		asset.WarrantyProvider,
		asset.Location,
		asset.CategoryID,
		asset.DepartmentID,
		asset.AssignedTo,
		asset.UserID,
		asset.IsDeleted,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("asset last insert id: %w", err)
	}
	asset.ID = id
	return id, nil
}

func (r *AssetRepository) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE asset_id = ? AND is_deleted = 0`,
		id,
	)
	return scanAsset(row)
}

// List builds the filtered listing query. Every filter value is a bound
// parameter; nothing from the request is ever spliced into the query text.
func (r *AssetRepository) List(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	where := []string{"is_deleted = 0", "user_id = ?"}
	args := []any{filter.UserID}

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.DepartmentID != nil {
		where = append(where, "department_id = ?")
		args = append(args, *filter.DepartmentID)
	}
	if filter.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}

	query := `SELECT ` + assetColumns + ` FROM assets WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY asset_id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	return scanAssetRows(rows)
}

// Update replaces every mutable attribute of the asset in place. The target
// must exist, belong to asset.UserID, and not be soft-deleted.
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	asset.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE assets
SET asset_tag=?, name=?, purchase_date=?, value=?, condition=?, status=?, warranty_expiry=?, warranty_provider=?, location=?, category_id=?, department_id=?, assigned_to=?, updated_at=?
WHERE asset_id=? AND user_id=? AND is_deleted=0`,
		asset.AssetTag,
		asset.Name,
		asset.PurchaseDate,
		asset.Value,
		asset.Condition,
		string(asset.Status),
		asset.WarrantyExpiry,
		asset.WarrantyProvider,
		asset.Location,
		asset.CategoryID,
		asset.DepartmentID,
		asset.AssignedTo,
		asset.UpdatedAt,
		asset.ID,
		asset.UserID,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update asset rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SoftDelete marks the asset deleted. The row is retained.
func (r *AssetRepository) SoftDelete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE assets
SET is_deleted = 1, updated_at = ?
WHERE asset_id = ? AND user_id = ? AND is_deleted = 0`,
		time.Now().UTC(),
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("soft delete asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanAsset(row interface {
	Scan(dest ...any) error
}) (*domain.Asset, error) {
	var a domain.Asset
	var status string
	if err := row.Scan(
		&a.ID,
		&a.AssetTag,
		&a.Name,
		&a.PurchaseDate,
		&a.Value,
		&a.Condition,
		&status,
		&a.WarrantyExpiry,
		&a.WarrantyProvider,
		&a.Location,
		&a.CategoryID,
		&a.DepartmentID,
		&a.AssignedTo,
		&a.UserID,
		&a.IsDeleted,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	a.Status = domain.AssetStatus(status)
	return &a, nil
}

func scanAssetRows(rows *sql.Rows) ([]domain.Asset, error) {
	var out []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return out, nil
}
