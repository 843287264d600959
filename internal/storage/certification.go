package storage

import (
	"context"
	"errors"
)

var ErrStoreNotFound = errors.New("store not found")

// Store is the metadata row for one service location.
type Store struct {
	ID              string `json:"store_id"`
	DistrictManager string `json:"district_manager"`
}

// EmployeeCertification is one raw certification record as supplied by a snapshot source.
// DaysUntilExpiry is nil when the employee was never certified; negative means expired.
type EmployeeCertification struct {
	Name            string `json:"name"`
	StoreID         string `json:"store_id"`
	Position        string `json:"position,omitempty"`
	DaysUntilExpiry *int   `json:"days_until_expiry"`
}

// SnapshotRepository supplies the current employee and store records.
type SnapshotRepository interface {
	ListStores(ctx context.Context) ([]Store, error)
	GetStoreEmployees(ctx context.Context, storeID string) ([]EmployeeCertification, error)
}
