package store

import (
	"context"
	"testing"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(0)
	require.NoError(t, SeedDemoData(context.Background(), m))
	return m
}

func TestSeededDataset(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	products, err := m.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	orders, err := m.GetOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	suppliers, err := m.GetSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 3)
}

func TestProductCRUD(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	product := &models.Product{
		Name:         "USB Hub",
		SKU:          "USB-900",
		Category:     "Electronics",
		SellingPrice: 24.99,
		Stock:        15,
	}
	require.NoError(t, m.CreateProduct(ctx, product))
	assert.NotZero(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())

	retrieved, err := m.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "USB-900", retrieved.SKU)

	name := "USB-C Hub"
	updated, err := m.UpdateProduct(ctx, product.ID, models.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "USB-C Hub", updated.Name)
	assert.Equal(t, 24.99, updated.SellingPrice, "untouched fields keep their values")

	require.NoError(t, m.DeleteProduct(ctx, product.ID))

	_, err = m.GetProductByID(ctx, product.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetProductBySKUMissReturnsNil(t *testing.T) {
	m := seededMemory(t)

	product, err := m.GetProductBySKU(context.Background(), "NOPE-000")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductFilters(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	office, err := m.GetProductsByCategory(ctx, "Office")
	require.NoError(t, err)
	assert.Len(t, office, 2)

	low, err := m.GetLowStockProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "EDC-014", low[0].SKU)

	out, err := m.GetOutOfStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "LDL-220", out[0].SKU)
}

func TestUpdateProductPriceAndStock(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	products, err := m.GetProducts(ctx)
	require.NoError(t, err)
	id := products[0].ID

	require.NoError(t, m.UpdateProductPrice(ctx, id, 99.99))
	require.NoError(t, m.UpdateProductStock(ctx, id, 5))

	p, err := m.GetProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 99.99, p.SellingPrice)
	assert.Equal(t, 5, p.Stock)

	err = m.UpdateProductPrice(ctx, 99999, 1.00)
	assert.True(t, apperr.IsNotFound(err))
}

func TestOrderQueries(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	pending, err := m.GetOrdersByStatus(ctx, models.OrderStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD-2025-000112", pending[0].OrderNumber)

	now := time.Now()
	ranged, err := m.GetOrdersByDateRange(ctx, now.Add(-30*time.Hour), now)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	recent, err := m.GetRecentOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt) || recent[0].CreatedAt.Equal(recent[1].CreatedAt),
		"recent orders are newest first")
}

func TestUpdateOrderStatus(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	orders, err := m.GetOrdersByStatus(ctx, models.OrderStatusPending)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NoError(t, m.UpdateOrderStatus(ctx, orders[0].ID, models.OrderStatusProcessing))

	o, err := m.GetOrderByID(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, o.Status)
}

func TestSupplierQueries(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	connected, err := m.GetConnectedSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, connected, 2)
	for _, s := range connected {
		assert.True(t, s.Connected())
	}

	top, err := m.GetTopRatedSuppliers(ctx, 4.5)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	byEmail, err := m.GetSupplierByEmail(ctx, "info@globalsupplies.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "Global Supplies Co", byEmail.Name)

	missing, err := m.GetSupplierByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoredCopiesAreIsolated(t *testing.T) {
	m := seededMemory(t)
	ctx := context.Background()

	products, err := m.GetProducts(ctx)
	require.NoError(t, err)
	products[0].Name = "mutated"

	fresh, err := m.GetProductByID(ctx, products[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh.Name)
}
