package service

import (
	"context"
	"strings"
	"testing"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) (*CatalogService, *store.Memory) {
	t.Helper()
	m := store.NewMemory(0)
	require.NoError(t, store.SeedDemoData(context.Background(), m))
	return NewCatalogService(m, nil, nil, 10), m
}

func TestAdjustPrice(t *testing.T) {
	assert.Equal(t, 110.0, AdjustPrice(100, AdjustPercentage, 10))
	assert.Equal(t, 105.0, AdjustPrice(100, AdjustFixed, 5))
	assert.Equal(t, 87.99, AdjustPrice(79.99, AdjustPercentage, 10))
	assert.Equal(t, 10.74, AdjustPrice(9.99, AdjustFixed, 0.75))
	assert.Equal(t, 79.99, AdjustPrice(79.99, AdjustPercentage, 0), "zero adjustment is a fixed point")
}

func TestDiscountPrice(t *testing.T) {
	assert.Equal(t, 150.0, DiscountPrice(200, 25))
	assert.Equal(t, 71.99, DiscountPrice(79.99, 10))
	assert.Equal(t, 79.99, DiscountPrice(79.99, 0), "zero discount leaves the price unchanged")
}

func TestSearchProducts(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	matched, err := svc.SearchProducts(ctx, "desk")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	bySKU, err := svc.SearchProducts(ctx, "wep-001")
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Wireless Earbuds Pro", bySKU[0].Name)

	none, err := svc.SearchProducts(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	err := svc.CreateProduct(ctx, &models.Product{SKU: "X-1"})
	assert.Error(t, err)

	err = svc.CreateProduct(ctx, &models.Product{Name: "X", SKU: "X-1", SellingPrice: -1})
	assert.Error(t, err)

	err = svc.CreateProduct(ctx, &models.Product{Name: "X", SKU: "X-1", SellingPrice: 5, Stock: 3})
	assert.NoError(t, err)
}

func TestBulkUpdatePricesSkipsUnknownIDs(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	err := svc.BulkUpdatePrices(ctx, []int64{1, 99999}, BulkUpdateRequest{Type: AdjustPercentage, Value: 10})
	require.NoError(t, err)

	p, err := m.GetProductByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 87.99, p.SellingPrice)
}

func TestBulkUpdatePricesFixed(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	err := svc.BulkUpdatePrices(ctx, []int64{4}, BulkUpdateRequest{Type: AdjustFixed, Value: 1.50})
	require.NoError(t, err)

	p, err := m.GetProductByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.SellingPrice)
}

func TestBulkApplyDiscount(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	err := svc.BulkApplyDiscount(ctx, []int64{2}, 50)
	require.NoError(t, err)

	p, err := m.GetProductByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 94.5, p.SellingPrice)
}

func TestBulkDiscontinue(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	err := svc.BulkDiscontinue(ctx, []int64{1, 3, 99999})
	require.NoError(t, err)

	p1, err := m.GetProductByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p1.Stock)

	// already out of stock, stays there
	p3, err := m.GetProductByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, p3.Stock)
}

func TestImportProductsCSV(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	csv := strings.Join([]string{
		"name,sku,sellingPrice,category,stock",
		"Travel Mug,TMG-500,15.99,Kitchen,30",
		",NON-1,9.99,Kitchen,5",
		"Bad Price,BAD-1,oops,Kitchen,5",
		"Duplicate,WEP-001,10.00,Electronics,1",
	}, "\n")

	result, err := svc.ImportProductsCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 3, result.Skipped)

	imported, err := m.GetProductBySKU(ctx, "TMG-500")
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, 15.99, imported.SellingPrice)
	assert.Equal(t, 30, imported.Stock)
}

func TestImportProductsCSVInvalidStockFallsBackToZero(t *testing.T) {
	svc, m := newCatalogService(t)
	ctx := context.Background()

	csv := "name,sku,sellingPrice,category,stock\nThing,THG-1,5.00,Misc,notanumber"
	result, err := svc.ImportProductsCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	p, err := m.GetProductBySKU(ctx, "THG-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Stock)
}

func TestImportProductsCSVBadHeader(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.ImportProductsCSV(context.Background(), "name,sku\nWidget,W-1")
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeFormat, appErr.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	filename, content, err := svc.ExportProductsCSV(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "products_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	fresh := store.NewMemory(0)
	freshSvc := NewCatalogService(fresh, nil, nil, 10)

	result, err := freshSvc.ImportProductsCSV(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 0, result.Skipped)
}
