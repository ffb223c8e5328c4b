package store

import (
	"context"
	"time"

	"dropflow-admin/internal/models"
)

// Store is the canonical data access contract. Two implementations
// exist: Memory (seeded mock dataset with optional artificial delay)
// and Postgres (hosted backend). Lookup-by-key helpers used for import
// uniqueness checks (GetProductBySKU, GetSupplierByEmail) return
// (nil, nil) on a miss; GetXByID returns a not-found error instead.
type Store interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
	GetOutOfStockProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductPrice(ctx context.Context, id int64, price float64) error
	UpdateProductStock(ctx context.Context, id int64, stock int) error

	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, id int64, patch models.OrderPatch) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	GetOrdersByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error)
	GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error

	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error)
	GetSupplierByEmail(ctx context.Context, email string) (*models.Supplier, error)
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	UpdateSupplier(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	GetConnectedSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetTopRatedSuppliers(ctx context.Context, minRating float64) ([]models.Supplier, error)

	Close() error
}
