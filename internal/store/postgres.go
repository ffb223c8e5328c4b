package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres is the hosted backend.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres connects to the hosted database.
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close closes the database connection.
func (s *Postgres) Close() error {
	return s.db.Close()
}

const productColumns = `id, name, sku, description, category, selling_price, supplier_price, stock, supplier_id, images, created_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category,
		&p.SellingPrice, &p.SupplierPrice, &p.Stock, &p.SupplierID,
		pq.Array(&p.Images), &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProducts retrieves the full catalog ordered by id.
func (s *Postgres) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
}

// GetProductByID retrieves a product by id.
func (s *Postgres) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProductBySKU retrieves a product by SKU; returns (nil, nil) on miss.
func (s *Postgres) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE sku = $1", sku))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct inserts a product and fills its generated id and timestamp.
func (s *Postgres) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, sku, description, category, selling_price, supplier_price, stock, supplier_id, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return s.db.QueryRowContext(ctx, query,
		product.Name, product.SKU, product.Description, product.Category,
		product.SellingPrice, product.SupplierPrice, product.Stock,
		product.SupplierID, pq.Array(product.Images),
	).Scan(&product.ID, &product.CreatedAt)
}

// UpdateProduct applies a partial update and returns the updated row.
func (s *Postgres) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	p, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductPatch(p, patch)

	_, err = s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, sku = $2, description = $3, category = $4,
		    selling_price = $5, supplier_price = $6, stock = $7,
		    supplier_id = $8, images = $9
		WHERE id = $10`,
		p.Name, p.SKU, p.Description, p.Category, p.SellingPrice,
		p.SupplierPrice, p.Stock, p.SupplierID, pq.Array(p.Images), id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product by id.
func (s *Postgres) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

// GetProductsByCategory retrieves products with a matching category.
func (s *Postgres) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE LOWER(category) = LOWER($1) ORDER BY id", category)
}

// GetLowStockProducts retrieves products with 0 < stock <= threshold.
func (s *Postgres) GetLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE stock > 0 AND stock <= $1 ORDER BY id", threshold)
}

// GetOutOfStockProducts retrieves products with zero stock.
func (s *Postgres) GetOutOfStockProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT " + productColumns + " FROM products WHERE stock = 0 ORDER BY id")
}

// UpdateProductPrice sets the selling price for a product.
func (s *Postgres) UpdateProductPrice(ctx context.Context, id int64, price float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET selling_price = $1 WHERE id = $2", price, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

// UpdateProductStock sets the stock count for a product.
func (s *Postgres) UpdateProductStock(ctx context.Context, id int64, stock int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = $1 WHERE id = $2", stock, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}
