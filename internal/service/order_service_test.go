package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dropflow-admin/internal/models"
	"dropflow-admin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*OrderService, *store.Memory) {
	t.Helper()
	m := store.NewMemory(0)
	require.NoError(t, store.SeedDemoData(context.Background(), m))
	return NewOrderService(m, nil, 10), m
}

func TestCreateOrderDefaults(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{
		CustomerName: "Alex Chen",
		Total:        42.00,
	}
	require.NoError(t, svc.CreateOrder(ctx, order))

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Regexp(t, `^ORD-\d{4}-\d{6}$`, order.OrderNumber)
}

func TestCreateOrderRejectsNegativeTotal(t *testing.T) {
	svc, _ := newOrderService(t)

	err := svc.CreateOrder(context.Background(), &models.Order{Total: -1})
	assert.Error(t, err)
}

func TestAdvanceStatusChain(t *testing.T) {
	svc, m := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{CustomerName: "Alex Chen", Total: 10}
	require.NoError(t, svc.CreateOrder(ctx, order))

	expected := []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	}
	for _, want := range expected {
		advanced, err := svc.AdvanceStatus(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, want, advanced.Status)
	}

	// delivered is terminal
	advanced, err := svc.AdvanceStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, advanced.Status)

	stored, err := m.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
}

func TestAdvanceStatusCancelledStaysCancelled(t *testing.T) {
	svc, m := newOrderService(t)
	ctx := context.Background()

	cancelled, err := m.GetOrdersByStatus(ctx, models.OrderStatusCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)

	advanced, err := svc.AdvanceStatus(ctx, cancelled[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, advanced.Status)
}

func TestShippingDetails(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	cases := []struct {
		items  int
		weight float64
		dims   PackageDimensions
	}{
		{1, 1.2, PackageDimensions{Length: 8, Width: 6, Height: 4}},
		{2, 2.4, PackageDimensions{Length: 8, Width: 6, Height: 4}},
		{5, 6.0, PackageDimensions{Length: 12, Width: 8, Height: 6}},
		{7, 8.4, PackageDimensions{Length: 16, Width: 12, Height: 8}},
	}

	for _, tc := range cases {
		order := &models.Order{CustomerName: "Alex Chen", Total: 10}
		for i := 0; i < tc.items; i++ {
			order.Items = append(order.Items, models.OrderItem{ProductID: int64(i + 1), Quantity: 1})
		}
		require.NoError(t, svc.CreateOrder(ctx, order))

		details, err := svc.ShippingDetails(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.weight, details.TotalWeight, "items=%d", tc.items)
		assert.Equal(t, tc.dims, details.Dimensions, "items=%d", tc.items)
	}
}

func TestShippingDetailsEmptyOrderCountsAsOneItem(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order := &models.Order{CustomerName: "Alex Chen", Total: 10}
	require.NoError(t, svc.CreateOrder(ctx, order))

	details, err := svc.ShippingDetails(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.2, details.TotalWeight)
}

func TestOrdersByDateRangeRejectsInvertedRange(t *testing.T) {
	svc, _ := newOrderService(t)

	now := time.Now()
	_, err := svc.OrdersByDateRange(context.Background(), now, now.Add(-time.Hour))
	assert.Error(t, err)
}

func TestRecentOrdersDefaultLimit(t *testing.T) {
	svc, _ := newOrderService(t)

	orders, err := svc.RecentOrders(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	orders, err = svc.RecentOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2025-000114", orders[0].OrderNumber)
}

func TestExportOrdersCSV(t *testing.T) {
	svc, _ := newOrderService(t)

	filename, content, err := svc.ExportOrdersCSV(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "orders_"))

	lines := strings.Split(content, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,orderNumber,customerName,customerEmail,status,total,createdAt,items,shippingAddress", lines[0])
	assert.Contains(t, content, "1:1; 4:1")
	assert.Contains(t, content, "189.00")
}
