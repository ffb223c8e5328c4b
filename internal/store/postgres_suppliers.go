package store

import (
	"context"
	"database/sql"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"

	"github.com/lib/pq"
)

const supplierColumns = `id, name, email, contact, location, rating, status, shipping_time, products, api_endpoint, created_at`

func scanSupplier(row interface{ Scan(...interface{}) error }) (*models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Contact, &s.Location,
		&s.Rating, &s.Status, &s.ShippingTime, pq.Array(&s.Products),
		&s.APIEndpoint, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Postgres) querySuppliers(ctx context.Context, query string, args ...interface{}) ([]models.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]models.Supplier, 0)
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *sup)
	}
	return suppliers, rows.Err()
}

// GetSuppliers retrieves all suppliers ordered by id.
func (s *Postgres) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.querySuppliers(ctx, "SELECT "+supplierColumns+" FROM suppliers ORDER BY id")
}

// GetSupplierByID retrieves a supplier by id.
func (s *Postgres) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	sup, err := scanSupplier(s.db.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("supplier", id)
	}
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// GetSupplierByEmail retrieves a supplier by email; returns (nil, nil) on miss.
func (s *Postgres) GetSupplierByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	sup, err := scanSupplier(s.db.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE LOWER(email) = LOWER($1)", email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// CreateSupplier inserts a supplier and fills its generated id and timestamp.
func (s *Postgres) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (name, email, contact, location, rating, status, shipping_time, products, api_endpoint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return s.db.QueryRowContext(ctx, query,
		supplier.Name, supplier.Email, supplier.Contact, supplier.Location,
		supplier.Rating, supplier.Status, supplier.ShippingTime,
		pq.Array(supplier.Products), supplier.APIEndpoint,
	).Scan(&supplier.ID, &supplier.CreatedAt)
}

// UpdateSupplier applies a partial update and returns the updated row.
func (s *Postgres) UpdateSupplier(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error) {
	sup, err := s.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applySupplierPatch(sup, patch)

	_, err = s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $1, email = $2, contact = $3, location = $4, rating = $5,
		    status = $6, shipping_time = $7, products = $8, api_endpoint = $9
		WHERE id = $10`,
		sup.Name, sup.Email, sup.Contact, sup.Location, sup.Rating,
		sup.Status, sup.ShippingTime, pq.Array(sup.Products), sup.APIEndpoint, id)
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// DeleteSupplier removes a supplier by id.
func (s *Postgres) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("supplier", id)
	}
	return nil
}

// GetConnectedSuppliers retrieves suppliers with an API endpoint configured.
func (s *Postgres) GetConnectedSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.querySuppliers(ctx,
		"SELECT " + supplierColumns + " FROM suppliers WHERE api_endpoint <> '' ORDER BY id")
}

// GetTopRatedSuppliers retrieves suppliers at or above a minimum rating.
func (s *Postgres) GetTopRatedSuppliers(ctx context.Context, minRating float64) ([]models.Supplier, error) {
	return s.querySuppliers(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE rating >= $1 ORDER BY id", minRating)
}
