package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"dropflow-admin/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishBulkPricesUpdated publishes a BulkPricesUpdated event
func (ep *EventPublisher) PublishBulkPricesUpdated(ctx context.Context, event *models.BulkPricesUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, "catalog", event)
}

// PublishProductsDiscontinued publishes a ProductsDiscontinued event
func (ep *EventPublisher) PublishProductsDiscontinued(ctx context.Context, event *models.ProductsDiscontinuedEvent) error {
	return ep.producer.PublishEvent(ctx, "catalog", event)
}

// PublishCatalogImported publishes a CatalogImported event
func (ep *EventPublisher) PublishCatalogImported(ctx context.Context, event *models.CatalogImportedEvent) error {
	return ep.producer.PublishEvent(ctx, "catalog", event)
}

// PublishLowStock publishes a LowStock event
func (ep *EventPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
	onLowStock           func(context.Context, *models.LowStockEvent) error
	onProductsDiscont    func(context.Context, *models.ProductsDiscontinuedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// OnLowStock registers a handler for LowStock events
func (eh *EventHandler) OnLowStock(handler func(context.Context, *models.LowStockEvent) error) {
	eh.onLowStock = handler
}

// OnProductsDiscontinued registers a handler for ProductsDiscontinued events
func (eh *EventHandler) OnProductsDiscontinued(handler func(context.Context, *models.ProductsDiscontinuedEvent) error) {
	eh.onProductsDiscont = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	case models.EventTypeLowStock:
		if eh.onLowStock != nil {
			var event models.LowStockEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStock event: %w", err)
			}
			return eh.onLowStock(ctx, &event)
		}

	case models.EventTypeProductsDiscontinued:
		if eh.onProductsDiscont != nil {
			var event models.ProductsDiscontinuedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductsDiscontinued event: %w", err)
			}
			return eh.onProductsDiscont(ctx, &event)
		}
	}

	return nil
}
