package models

import "time"

// Event types
const (
	EventTypeOrderStatusChanged   = "ORDER_STATUS_CHANGED"
	EventTypeBulkPricesUpdated    = "BULK_PRICES_UPDATED"
	EventTypeProductsDiscontinued = "PRODUCTS_DISCONTINUED"
	EventTypeCatalogImported      = "CATALOG_IMPORTED"
	EventTypeLowStock             = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent published when an order advances along the
// status chain or is cancelled
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
}

// BulkPricesUpdatedEvent published after a bulk price or discount batch
type BulkPricesUpdatedEvent struct {
	BaseEvent
	ProductIDs []int64 `json:"product_ids"`
	Adjustment string  `json:"adjustment"`
	Value      float64 `json:"value"`
	Updated    int     `json:"updated"`
}

// ProductsDiscontinuedEvent published after a bulk discontinue batch
type ProductsDiscontinuedEvent struct {
	BaseEvent
	ProductIDs []int64 `json:"product_ids"`
}

// CatalogImportedEvent published after a CSV import completes
type CatalogImportedEvent struct {
	BaseEvent
	Entity   string `json:"entity"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// LowStockEvent published when a product crosses into low or out of stock
type LowStockEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	Status    string `json:"status"`
}
