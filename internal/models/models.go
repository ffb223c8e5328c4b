package models

import "time"

// Product is a catalog entry. StockStatus is always derived from the
// stock count, never stored.
type Product struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	SKU           string    `db:"sku" json:"sku"`
	Description   string    `db:"description" json:"description"`
	Category      string    `db:"category" json:"category"`
	SellingPrice  float64   `db:"selling_price" json:"sellingPrice"`
	SupplierPrice float64   `db:"supplier_price" json:"supplierPrice"`
	Stock         int       `db:"stock" json:"stock"`
	SupplierID    int64     `db:"supplier_id" json:"supplierId"`
	Images        []string  `db:"-" json:"images"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Stock statuses
const (
	StockStatusIn  = "in-stock"
	StockStatusLow = "low-stock"
	StockStatusOut = "out-of-stock"
)

// StockStatus derives the display status from the stock count.
func (p *Product) StockStatus(lowThreshold int) string {
	switch {
	case p.Stock == 0:
		return StockStatusOut
	case p.Stock <= lowThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// Order is a customer order. Items are embedded; the order is read-only
// in this service apart from the status-advance action.
type Order struct {
	ID              int64       `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"orderNumber"`
	CustomerName    string      `db:"customer_name" json:"customerName"`
	CustomerEmail   string      `db:"customer_email" json:"customerEmail"`
	ShippingAddress string      `db:"shipping_address" json:"shippingAddress"`
	Status          string      `db:"status" json:"status"`
	Total           float64     `db:"total" json:"total"`
	Items           []OrderItem `db:"-" json:"items"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
}

// OrderItem is a product/quantity line within an order.
type OrderItem struct {
	ProductID int64 `db:"product_id" json:"productId"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// NextOrderStatus returns the forward transition for a status. Terminal
// statuses map to themselves; unknown statuses are left unchanged.
func NextOrderStatus(status string) string {
	switch status {
	case OrderStatusPending:
		return OrderStatusProcessing
	case OrderStatusProcessing:
		return OrderStatusShipped
	case OrderStatusShipped:
		return OrderStatusDelivered
	default:
		return status
	}
}

// Supplier is a sourcing partner. A non-empty APIEndpoint means the
// supplier is API connected rather than manually processed.
type Supplier struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Contact      string    `db:"contact" json:"contact"`
	Location     string    `db:"location" json:"location"`
	Rating       float64   `db:"rating" json:"rating"`
	Status       string    `db:"status" json:"status"`
	ShippingTime string    `db:"shipping_time" json:"shippingTime"`
	Products     []string  `db:"-" json:"products"`
	APIEndpoint  string    `db:"api_endpoint" json:"apiEndpoint,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Connected reports whether the supplier has an API integration.
func (s *Supplier) Connected() bool {
	return s.APIEndpoint != ""
}

// SupplierPerformance holds synthetic metrics derived from a supplier's
// rating. Values are recomputed on every fetch and not persisted.
type SupplierPerformance struct {
	SupplierID        int64   `json:"supplierId"`
	OnTimeDelivery    float64 `json:"onTimeDelivery"`
	Accuracy          float64 `json:"accuracy"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
	ProcessingTrend   float64 `json:"processingTrend"`
	TotalOrders       int     `json:"totalOrders"`
}

// Carriers
const (
	CarrierUSPS  = "USPS"
	CarrierFedEx = "FedEx"
	CarrierUPS   = "UPS"
)

// ShippingQuote is a computed per-carrier, per-service rate. Exactly one
// quote per calculation carries Recommended=true.
type ShippingQuote struct {
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Cost         float64 `json:"cost"`
	DeliveryTime string  `json:"deliveryTime"`
	Recommended  bool    `json:"recommended"`
}

// Carrier describes a supported shipping carrier.
type Carrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ServiceType describes one service tier offered by a carrier.
type ServiceType struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DeliveryDays string `json:"deliveryDays"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string   `json:"name"`
	SKU           *string   `json:"sku"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	SellingPrice  *float64  `json:"sellingPrice"`
	SupplierPrice *float64  `json:"supplierPrice"`
	Stock         *int      `json:"stock"`
	SupplierID    *int64    `json:"supplierId"`
	Images        *[]string `json:"images"`
}

// OrderPatch carries a partial update; nil fields are left untouched.
type OrderPatch struct {
	OrderNumber     *string      `json:"orderNumber"`
	CustomerName    *string      `json:"customerName"`
	CustomerEmail   *string      `json:"customerEmail"`
	ShippingAddress *string      `json:"shippingAddress"`
	Status          *string      `json:"status"`
	Total           *float64     `json:"total"`
	Items           *[]OrderItem `json:"items"`
}

// SupplierPatch carries a partial update; nil fields are left untouched.
type SupplierPatch struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Contact      *string   `json:"contact"`
	Location     *string   `json:"location"`
	Rating       *float64  `json:"rating"`
	Status       *string   `json:"status"`
	ShippingTime *string   `json:"shippingTime"`
	Products     *[]string `json:"products"`
	APIEndpoint  *string   `json:"apiEndpoint"`
}
