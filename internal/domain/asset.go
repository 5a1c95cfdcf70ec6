package domain

import "time"

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusInactive    AssetStatus = "inactive"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

// Asset represents an inventory record owned by exactly one user.
// PurchaseDate and WarrantyExpiry are opaque date strings passed through
// unmodified; category and department are opaque foreign identifiers.
type Asset struct {
	ID               int64
	AssetTag         string
	Name             string
	PurchaseDate     string
	Value            float64
	Condition        string
	Status           AssetStatus
	WarrantyExpiry   string
	WarrantyProvider string
	Location         string
	CategoryID       int64
	DepartmentID     int64
	AssignedTo       string
	UserID           int64
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
