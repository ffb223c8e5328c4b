package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"
)

// Memory is the mock-data backend: collections live in process memory
// and every call sleeps for a configurable delay to simulate a network
// round trip. It is also the fixture backend for tests (zero delay).
type Memory struct {
	mu    sync.RWMutex
	delay time.Duration

	products  map[int64]models.Product
	orders    map[int64]models.Order
	suppliers map[int64]models.Supplier

	nextProductID  int64
	nextOrderID    int64
	nextSupplierID int64
}

// NewMemory creates an empty in-memory store.
func NewMemory(delay time.Duration) *Memory {
	return &Memory{
		delay:          delay,
		products:       make(map[int64]models.Product),
		orders:         make(map[int64]models.Order),
		suppliers:      make(map[int64]models.Supplier),
		nextProductID:  1,
		nextOrderID:    1,
		nextSupplierID: 1,
	}
}

func (m *Memory) pause(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func cloneSupplier(s models.Supplier) models.Supplier {
	s.Products = append([]string(nil), s.Products...)
	return s
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error {
	return nil
}

// --- products ---

func (m *Memory) GetProducts(ctx context.Context) ([]models.Product, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *Memory) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	p = cloneProduct(p)
	return &p, nil
}

func (m *Memory) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.SKU == sku {
			p = cloneProduct(p)
			return &p, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = m.nextProductID
	m.nextProductID++
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	m.products[product.ID] = cloneProduct(*product)
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	applyProductPatch(&p, patch)
	m.products[id] = cloneProduct(p)
	return &p, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("product", id)
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return m.filterProducts(ctx, func(p models.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

func (m *Memory) GetLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	return m.filterProducts(ctx, func(p models.Product) bool {
		return p.Stock > 0 && p.Stock <= threshold
	})
}

func (m *Memory) GetOutOfStockProducts(ctx context.Context) ([]models.Product, error) {
	return m.filterProducts(ctx, func(p models.Product) bool {
		return p.Stock == 0
	})
}

func (m *Memory) filterProducts(ctx context.Context, keep func(models.Product) bool) ([]models.Product, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0)
	for _, p := range m.products {
		if keep(p) {
			products = append(products, cloneProduct(p))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *Memory) UpdateProductPrice(ctx context.Context, id int64, price float64) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return apperr.NotFound("product", id)
	}
	p.SellingPrice = price
	m.products[id] = p
	return nil
}

func (m *Memory) UpdateProductStock(ctx context.Context, id int64, stock int) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return apperr.NotFound("product", id)
	}
	p.Stock = stock
	m.products[id] = p
	return nil
}

// --- orders ---

func (m *Memory) GetOrders(ctx context.Context) ([]models.Order, error) {
	return m.filterOrders(ctx, func(models.Order) bool { return true })
}

func (m *Memory) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *Memory) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	order.ID = m.nextOrderID
	m.nextOrderID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	m.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (m *Memory) UpdateOrder(ctx context.Context, id int64, patch models.OrderPatch) (*models.Order, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	applyOrderPatch(&o, patch)
	m.orders[id] = cloneOrder(o)
	return &o, nil
}

func (m *Memory) DeleteOrder(ctx context.Context, id int64) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return apperr.NotFound("order", id)
	}
	delete(m.orders, id)
	return nil
}

func (m *Memory) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return m.filterOrders(ctx, func(o models.Order) bool {
		return o.Status == status
	})
}

func (m *Memory) GetOrdersByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	// inclusive on both ends
	return m.filterOrders(ctx, func(o models.Order) bool {
		return !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	})
}

func (m *Memory) GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	orders, err := m.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (m *Memory) filterOrders(ctx context.Context, keep func(models.Order) bool) ([]models.Order, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range m.orders {
		if keep(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("order", id)
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

// --- suppliers ---

func (m *Memory) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return m.filterSuppliers(ctx, func(models.Supplier) bool { return true })
}

func (m *Memory) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.suppliers[id]
	if !ok {
		return nil, apperr.NotFound("supplier", id)
	}
	s = cloneSupplier(s)
	return &s, nil
}

func (m *Memory) GetSupplierByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.suppliers {
		if strings.EqualFold(s.Email, email) {
			s = cloneSupplier(s)
			return &s, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	supplier.ID = m.nextSupplierID
	m.nextSupplierID++
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now()
	}
	m.suppliers[supplier.ID] = cloneSupplier(*supplier)
	return nil
}

func (m *Memory) UpdateSupplier(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.suppliers[id]
	if !ok {
		return nil, apperr.NotFound("supplier", id)
	}
	applySupplierPatch(&s, patch)
	m.suppliers[id] = cloneSupplier(s)
	return &s, nil
}

func (m *Memory) DeleteSupplier(ctx context.Context, id int64) error {
	if err := m.pause(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.suppliers[id]; !ok {
		return apperr.NotFound("supplier", id)
	}
	delete(m.suppliers, id)
	return nil
}

func (m *Memory) GetConnectedSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return m.filterSuppliers(ctx, func(s models.Supplier) bool {
		return s.APIEndpoint != ""
	})
}

func (m *Memory) GetTopRatedSuppliers(ctx context.Context, minRating float64) ([]models.Supplier, error) {
	return m.filterSuppliers(ctx, func(s models.Supplier) bool {
		return s.Rating >= minRating
	})
}

func (m *Memory) filterSuppliers(ctx context.Context, keep func(models.Supplier) bool) ([]models.Supplier, error) {
	if err := m.pause(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	suppliers := make([]models.Supplier, 0)
	for _, s := range m.suppliers {
		if keep(s) {
			suppliers = append(suppliers, cloneSupplier(s))
		}
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers, nil
}
