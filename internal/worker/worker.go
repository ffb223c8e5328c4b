package worker

import (
	"context"
	"log"
	"time"

	"dropflow-admin/internal/broker"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/redisclient"
	"dropflow-admin/internal/util"

	"go.uber.org/zap"
)

const alertDedupWindow = time.Hour

// AlertsWorker consumes domain events and surfaces operational alerts:
// low-stock warnings (deduplicated through Redis) and audit logging for
// order status changes and catalog batches.
type AlertsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewAlertsWorker creates a new alerts worker.
func NewAlertsWorker(consumer *broker.Consumer, redis *redisclient.Client) *AlertsWorker {
	w := &AlertsWorker{
		consumer: consumer,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnLowStock(w.handleLowStock)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	eventHandler.OnProductsDiscontinued(w.handleProductsDiscontinued)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AlertsWorker) Start(ctx context.Context) error {
	log.Println("Starting alerts worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AlertsWorker) Stop() error {
	log.Println("Stopping alerts worker...")
	return w.consumer.Close()
}

func (w *AlertsWorker) handleLowStock(ctx context.Context, event *models.LowStockEvent) error {
	if w.redis != nil {
		fresh, err := w.redis.MarkAlerted(ctx, event.ProductID, alertDedupWindow)
		if err != nil {
			w.logger.Warn("Alert dedup check failed", zap.Error(err))
		} else if !fresh {
			return nil
		}
	}

	util.LowStockAlertsTotal.Inc()
	w.logger.Warn("Low stock alert",
		zap.Int64("product_id", event.ProductID),
		zap.String("sku", event.SKU),
		zap.Int("stock", event.Stock),
		zap.String("status", event.Status))
	return nil
}

func (w *AlertsWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	w.logger.Info("Order status changed",
		zap.Int64("order_id", event.OrderID),
		zap.String("order_number", event.OrderNumber),
		zap.String("from", event.FromStatus),
		zap.String("to", event.ToStatus))
	return nil
}

func (w *AlertsWorker) handleProductsDiscontinued(ctx context.Context, event *models.ProductsDiscontinuedEvent) error {
	w.logger.Info("Products discontinued",
		zap.Int("count", len(event.ProductIDs)),
		zap.Int64s("product_ids", event.ProductIDs))
	return nil
}
