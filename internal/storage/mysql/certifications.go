package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cert-dashboard/internal/storage"
)

func (s *Storage) ListStores(ctx context.Context) ([]storage.Store, error) {
	const op = "storage.mysql.ListStores"

	stmt := `SELECT store_id, district_manager FROM cert_stores WHERE is_active = TRUE ORDER BY CAST(store_id AS UNSIGNED), store_id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: query stores: %w", op, err)
	}
	defer rows.Close()

	var stores []storage.Store
	for rows.Next() {
		var (
			store   storage.Store
			manager sql.NullString
		)

		if err := rows.Scan(&store.ID, &manager); err != nil {
			return nil, fmt.Errorf("%s: scan store: %w", op, err)
		}

		store.ID = strings.TrimSpace(store.ID)
		store.DistrictManager = manager.String
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate stores: %w", op, err)
	}

	return stores, nil
}

// GetStoreEmployees computes days until expiry in the database so the figure is always
// relative to the server's current date. A NULL expiry date means never certified.
func (s *Storage) GetStoreEmployees(ctx context.Context, storeID string) ([]storage.EmployeeCertification, error) {
	const op = "storage.mysql.GetStoreEmployees"

	storeID = strings.TrimSpace(storeID)

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM cert_stores WHERE store_id = ? AND is_active = TRUE`, storeID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: store %s: %w", op, storeID, storage.ErrStoreNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: lookup store %s: %w", op, storeID, err)
	}

	stmt := `
		SELECT e.name, e.position, DATEDIFF(e.expires_on, CURDATE())
		FROM cert_employee_certifications e
		WHERE e.store_id = ?
		ORDER BY e.name ASC`

	rows, err := s.db.QueryContext(ctx, stmt, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s: query employees for store %s: %w", op, storeID, err)
	}
	defer rows.Close()

	employees := make([]storage.EmployeeCertification, 0)
	for rows.Next() {
		var (
			emp      storage.EmployeeCertification
			position sql.NullString
			days     sql.NullInt64
		)

		if err := rows.Scan(&emp.Name, &position, &days); err != nil {
			return nil, fmt.Errorf("%s: scan employee for store %s: %w", op, storeID, err)
		}

		emp.StoreID = storeID
		emp.Position = position.String
		if days.Valid {
			d := int(days.Int64)
			emp.DaysUntilExpiry = &d
		}

		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate employees for store %s: %w", op, storeID, err)
	}

	return employees, nil
}
