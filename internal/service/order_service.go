package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/broker"
	"dropflow-admin/internal/csvio"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/store"
	"dropflow-admin/internal/util"

	"go.uber.org/zap"
)

var orderExportHeaders = []string{"id", "orderNumber", "customerName", "customerEmail", "status", "total", "createdAt", "items", "shippingAddress"}

// OrderService handles order queries, the status-advance action and CSV
// export. Orders themselves are created at checkout, outside this
// service; the create path here exists for the admin's manual entry.
type OrderService struct {
	store       store.Store
	events      *broker.EventPublisher
	logger      *zap.Logger
	recentLimit int
}

// NewOrderService creates a new order service. events may be nil.
// recentLimit caps the default page size of RecentOrders.
func NewOrderService(st store.Store, events *broker.EventPublisher, recentLimit int) *OrderService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &OrderService{
		store:       st,
		events:      events,
		logger:      util.GetLogger(),
		recentLimit: recentLimit,
	}
}

// PackageDimensions is an estimated parcel size for an order.
type PackageDimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OrderShippingDetails augments an order with estimated package data
// for the shipping calculator.
type OrderShippingDetails struct {
	Order       *models.Order     `json:"order"`
	TotalWeight float64           `json:"totalWeight"`
	Dimensions  PackageDimensions `json:"estimatedDimensions"`
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.GetOrders(ctx)
}

// GetOrder returns a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, id)
}

// CreateOrder inserts an order, generating an order number and pending
// status when absent.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.Total < 0 {
		return apperr.Validation("order total must be non-negative")
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber(time.Now())
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	return s.store.CreateOrder(ctx, order)
}

func generateOrderNumber(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	return fmt.Sprintf("ORD-%d-%s", now.Year(), millis[len(millis)-6:])
}

// UpdateOrder applies a partial update.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, patch models.OrderPatch) (*models.Order, error) {
	if patch.Total != nil && *patch.Total < 0 {
		return nil, apperr.Validation("order total must be non-negative")
	}
	return s.store.UpdateOrder(ctx, id, patch)
}

// DeleteOrder removes an order by id.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.store.DeleteOrder(ctx, id)
}

// OrdersByStatus filters by status equality.
func (s *OrderService) OrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return s.store.GetOrdersByStatus(ctx, status)
}

// OrdersByDateRange filters by creation time, inclusive on both ends.
func (s *OrderService) OrdersByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	if to.Before(from) {
		return nil, apperr.Validation("date range end precedes start")
	}
	return s.store.GetOrdersByDateRange(ctx, from, to)
}

// RecentOrders returns the newest orders up to limit.
func (s *OrderService) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	return s.store.GetRecentOrders(ctx, limit)
}

// AdvanceStatus moves an order one step along the forward chain.
// Delivered and cancelled orders stay where they are.
func (s *OrderService) AdvanceStatus(ctx context.Context, id int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AdvanceStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.NextOrderStatus(order.Status)
	if next == order.Status {
		return order, nil
	}

	if err := s.store.UpdateOrderStatus(ctx, id, next); err != nil {
		return nil, err
	}

	util.OrderStatusAdvancesTotal.WithLabelValues(next).Inc()
	if s.events != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeOrderStatusChanged),
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			FromStatus:  order.Status,
			ToStatus:    next,
		}
		if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}
	s.logger.Info("Order status advanced",
		zap.Int64("order_id", order.ID),
		zap.String("from", order.Status),
		zap.String("to", next))

	order.Status = next
	return order, nil
}

// ShippingDetails estimates parcel weight and dimensions for an order:
// 1.2 lb per line item, box size tiered by line count.
func (s *OrderService) ShippingDetails(ctx context.Context, id int64) (*OrderShippingDetails, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	itemCount := len(order.Items)
	if itemCount == 0 {
		itemCount = 1
	}

	details := &OrderShippingDetails{
		Order:       order,
		TotalWeight: math.Round(float64(itemCount)*1.2*10) / 10,
	}
	switch {
	case itemCount <= 2:
		details.Dimensions = PackageDimensions{Length: 8, Width: 6, Height: 4}
	case itemCount <= 5:
		details.Dimensions = PackageDimensions{Length: 12, Width: 8, Height: 6}
	default:
		details.Dimensions = PackageDimensions{Length: 16, Width: 12, Height: 8}
	}
	return details, nil
}

// ExportOrdersCSV renders all orders as CSV with the dated download
// filename. Items serialize as "productId:quantity" pairs.
func (s *OrderService) ExportOrdersCSV(ctx context.Context) (string, string, error) {
	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		return "", "", err
	}

	records := make([][]string, 0, len(orders))
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, fmt.Sprintf("%d:%d", item.ProductID, item.Quantity))
		}
		records = append(records, []string{
			strconv.FormatInt(o.ID, 10),
			o.OrderNumber,
			o.CustomerName,
			o.CustomerEmail,
			o.Status,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.CreatedAt.Format(time.RFC3339),
			csvio.JoinList(items),
			o.ShippingAddress,
		})
	}

	util.CSVExportsTotal.WithLabelValues("orders").Inc()
	return csvio.Filename("orders", time.Now()), csvio.Marshal(orderExportHeaders, records), nil
}
