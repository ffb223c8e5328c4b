package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"dropflow-admin/internal/models"
	"dropflow-admin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplierService(t *testing.T) (*SupplierService, *store.Memory) {
	t.Helper()
	m := store.NewMemory(0)
	require.NoError(t, store.SeedDemoData(context.Background(), m))
	return NewSupplierService(m, rand.New(rand.NewSource(1))), m
}

func TestCreateSupplierValidation(t *testing.T) {
	svc, _ := newSupplierService(t)
	ctx := context.Background()

	err := svc.CreateSupplier(ctx, &models.Supplier{Email: "a@b.com"})
	assert.Error(t, err, "name is required")

	err = svc.CreateSupplier(ctx, &models.Supplier{Name: "X", Email: "not-an-email"})
	assert.Error(t, err)

	err = svc.CreateSupplier(ctx, &models.Supplier{Name: "X", Email: "a@b.com", Rating: 5.5})
	assert.Error(t, err)

	supplier := &models.Supplier{Name: "X", Email: "a@b.com", Rating: 4}
	require.NoError(t, svc.CreateSupplier(ctx, supplier))
	assert.Equal(t, "active", supplier.Status)
}

func TestUpdateSupplierValidation(t *testing.T) {
	svc, _ := newSupplierService(t)
	ctx := context.Background()

	badRating := 9.0
	_, err := svc.UpdateSupplier(ctx, 1, models.SupplierPatch{Rating: &badRating})
	assert.Error(t, err)

	badEmail := "nope"
	_, err = svc.UpdateSupplier(ctx, 1, models.SupplierPatch{Email: &badEmail})
	assert.Error(t, err)

	goodRating := 3.5
	updated, err := svc.UpdateSupplier(ctx, 1, models.SupplierPatch{Rating: &goodRating})
	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.Rating)
	assert.Equal(t, "Tech Solutions Inc", updated.Name, "untouched fields keep their values")
}

func TestPerformanceMetricsRanges(t *testing.T) {
	svc, m := newSupplierService(t)
	ctx := context.Background()

	suppliers, err := m.GetSuppliers(ctx)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		metrics, err := svc.PerformanceMetrics(ctx)
		require.NoError(t, err)
		require.Len(t, metrics, len(suppliers))

		for _, perf := range metrics {
			assert.GreaterOrEqual(t, perf.OnTimeDelivery, 70.0)
			assert.LessOrEqual(t, perf.OnTimeDelivery, 100.0)
			assert.GreaterOrEqual(t, perf.Accuracy, 85.0)
			assert.LessOrEqual(t, perf.Accuracy, 100.0)
			assert.GreaterOrEqual(t, perf.AvgProcessingTime, 1.0)
			assert.LessOrEqual(t, perf.AvgProcessingTime, 72.0)
			assert.GreaterOrEqual(t, perf.ProcessingTrend, -4.0)
			assert.LessOrEqual(t, perf.ProcessingTrend, 4.0)
			assert.GreaterOrEqual(t, perf.TotalOrders, 20)
			assert.Less(t, perf.TotalOrders, 200)
		}
	}
}

func TestEstimatePerformanceDeterministicWithSeed(t *testing.T) {
	a := EstimatePerformance(1, 4.5, rand.New(rand.NewSource(7)))
	b := EstimatePerformance(1, 4.5, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestImportSuppliersCSV(t *testing.T) {
	svc, m := newSupplierService(t)
	ctx := context.Background()

	csv := strings.Join([]string{
		"name,email,contact,rating,status",
		"Acme Corp,orders@acme.com,+1-555-0200,4.1,active",
		"No Email Co,,+1-555-0201,3.0,active",
		"Bad Email Co,not-an-email,+1-555-0202,3.0,active",
		"Dup Co,contact@techsolutions.com,+1-555-0203,3.0,active",
		"High Rating Co,hr@example.com,+1-555-0204,9.9,",
	}, "\n")

	result, err := svc.ImportSuppliersCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 3, result.Skipped)

	acme, err := m.GetSupplierByEmail(ctx, "orders@acme.com")
	require.NoError(t, err)
	require.NotNil(t, acme)
	assert.Equal(t, 4.1, acme.Rating)

	// out-of-range rating falls back to 0, blank status to active
	hr, err := m.GetSupplierByEmail(ctx, "hr@example.com")
	require.NoError(t, err)
	require.NotNil(t, hr)
	assert.Equal(t, 0.0, hr.Rating)
	assert.Equal(t, "active", hr.Status)
}

func TestExportSuppliersCSV(t *testing.T) {
	svc, _ := newSupplierService(t)

	filename, content, err := svc.ExportSuppliersCSV(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "suppliers_"))

	lines := strings.Split(content, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,email,contact,location,rating,status,shippingTime,products,apiEndpoint", lines[0])
	assert.Contains(t, content, "contact@techsolutions.com")
	assert.Contains(t, content, "Software; Hardware")
}
