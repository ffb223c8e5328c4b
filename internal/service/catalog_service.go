package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/broker"
	"dropflow-admin/internal/csvio"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/redisclient"
	"dropflow-admin/internal/store"
	"dropflow-admin/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bulk price adjustment types
const (
	AdjustPercentage = "percentage"
	AdjustFixed      = "fixed"
)

const catalogCacheTTL = 30 * time.Second

// Product CSV headers. Export writes a superset of the import-required
// set so an exported file imports cleanly.
var (
	productImportRequired = []string{"name", "sku", "sellingPrice", "category"}
	productExportHeaders  = []string{"id", "name", "sku", "sellingPrice", "category", "stock", "description", "supplierPrice", "images"}
)

// CatalogService handles product catalog queries, bulk pricing and CSV
// import/export.
type CatalogService struct {
	store             store.Store
	redis             *redisclient.Client
	events            *broker.EventPublisher
	logger            *zap.Logger
	lowStockThreshold int
}

// NewCatalogService creates a new catalog service. redis and events may
// be nil; caching, locking and event publishing are then skipped.
func NewCatalogService(st store.Store, redis *redisclient.Client, events *broker.EventPublisher, lowStockThreshold int) *CatalogService {
	return &CatalogService{
		store:             st,
		redis:             redis,
		events:            events,
		logger:            util.GetLogger(),
		lowStockThreshold: lowStockThreshold,
	}
}

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// BulkUpdateRequest describes a bulk price adjustment.
type BulkUpdateRequest struct {
	Type  string  `json:"type" binding:"required,oneof=percentage fixed"`
	Value float64 `json:"value" binding:"required,gt=0"`
}

// ListProducts returns the full catalog, served from the Redis cache
// when warm.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if s.redis != nil {
		if cached, err := s.redis.GetCachedCatalog(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.CacheCatalog(ctx, products, catalogCacheTTL); err != nil {
			s.logger.Warn("Failed to cache catalog", zap.Error(err))
		}
	}
	return products, nil
}

// GetProduct returns a single product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// SearchProducts filters the catalog by a case-insensitive match on
// name or SKU.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matched := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// ProductsByCategory filters by category equality.
func (s *CatalogService) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.store.GetProductsByCategory(ctx, category)
}

// LowStockProducts returns products with 0 < stock <= threshold.
func (s *CatalogService) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetLowStockProducts(ctx, s.lowStockThreshold)
}

// OutOfStockProducts returns products with zero stock.
func (s *CatalogService) OutOfStockProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetOutOfStockProducts(ctx)
}

// CreateProduct validates and inserts a catalog entry.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" || product.SKU == "" {
		return apperr.Validation("product name and SKU are required")
	}
	if product.SellingPrice < 0 || product.SupplierPrice < 0 {
		return apperr.Validation("prices must be non-negative")
	}
	if product.Stock < 0 {
		return apperr.Validation("stock must be non-negative")
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// UpdateProduct applies a partial update.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	if patch.SellingPrice != nil && *patch.SellingPrice < 0 {
		return nil, apperr.Validation("selling price must be non-negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, apperr.Validation("stock must be non-negative")
	}
	product, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	if patch.Stock != nil {
		s.maybePublishLowStock(ctx, product)
	}
	return product, nil
}

// maybePublishLowStock emits a LowStock event when a stock write lands
// at or below the threshold.
func (s *CatalogService) maybePublishLowStock(ctx context.Context, p *models.Product) {
	if s.events == nil || p.Stock > s.lowStockThreshold {
		return
	}
	event := &models.LowStockEvent{
		BaseEvent: newBaseEvent(models.EventTypeLowStock),
		ProductID: p.ID,
		SKU:       p.SKU,
		Stock:     p.Stock,
		Status:    p.StockStatus(s.lowStockThreshold),
	}
	if err := s.events.PublishLowStock(ctx, event); err != nil {
		s.logger.Error("Failed to publish LowStock event", zap.Error(err))
	}
}

// DeleteProduct removes a product by id.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// AdjustPrice computes a bulk price update result, rounded half-up to
// two decimals.
func AdjustPrice(price float64, adjustType string, value float64) float64 {
	if adjustType == AdjustFixed {
		return round2(price + value)
	}
	return round2(price * (1 + value/100))
}

// DiscountPrice computes a percentage discount result, rounded half-up
// to two decimals. Zero passes through unchanged; range enforcement is
// the caller's responsibility.
func DiscountPrice(price, percent float64) float64 {
	return round2(price * (1 - percent/100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BulkUpdatePrices applies a percentage or fixed adjustment to each
// matched product. Unknown ids are skipped; the batch always succeeds.
func (s *CatalogService) BulkUpdatePrices(ctx context.Context, ids []int64, req BulkUpdateRequest) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.BulkUpdatePrices")
	defer span.End()

	release, err := s.lockBulk(ctx, "prices")
	if err != nil {
		return err
	}
	defer release()

	updated := 0
	for _, id := range ids {
		product, err := s.store.GetProductByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return err
		}
		newPrice := AdjustPrice(product.SellingPrice, req.Type, req.Value)
		if err := s.store.UpdateProductPrice(ctx, id, newPrice); err != nil && !apperr.IsNotFound(err) {
			return err
		}
		updated++
	}

	util.BulkPriceUpdatesTotal.WithLabelValues("update").Add(float64(updated))
	s.invalidateCatalog(ctx)
	s.publishBulkPrices(ctx, ids, req.Type, req.Value, updated)
	s.logger.Info("Bulk price update applied",
		zap.String("type", req.Type),
		zap.Float64("value", req.Value),
		zap.Int("updated", updated))
	return nil
}

// BulkApplyDiscount applies a percentage discount to each matched
// product. Same skip rules as BulkUpdatePrices.
func (s *CatalogService) BulkApplyDiscount(ctx context.Context, ids []int64, percent float64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.BulkApplyDiscount")
	defer span.End()

	release, err := s.lockBulk(ctx, "discount")
	if err != nil {
		return err
	}
	defer release()

	updated := 0
	for _, id := range ids {
		product, err := s.store.GetProductByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return err
		}
		newPrice := DiscountPrice(product.SellingPrice, percent)
		if err := s.store.UpdateProductPrice(ctx, id, newPrice); err != nil && !apperr.IsNotFound(err) {
			return err
		}
		updated++
	}

	util.BulkPriceUpdatesTotal.WithLabelValues("discount").Add(float64(updated))
	s.invalidateCatalog(ctx)
	s.publishBulkPrices(ctx, ids, "discount", percent, updated)
	return nil
}

// BulkDiscontinue zeroes stock for each matched product. Discontinuing
// an already-zero-stock product is a no-op.
func (s *CatalogService) BulkDiscontinue(ctx context.Context, ids []int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.BulkDiscontinue")
	defer span.End()

	release, err := s.lockBulk(ctx, "discontinue")
	if err != nil {
		return err
	}
	defer release()

	discontinued := make([]int64, 0, len(ids))
	for _, id := range ids {
		product, err := s.store.GetProductByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return err
		}
		if product.Stock != 0 {
			if err := s.store.UpdateProductStock(ctx, id, 0); err != nil && !apperr.IsNotFound(err) {
				return err
			}
		}
		discontinued = append(discontinued, id)
	}

	util.ProductsDiscontinuedTotal.Add(float64(len(discontinued)))
	s.invalidateCatalog(ctx)
	if s.events != nil && len(discontinued) > 0 {
		event := &models.ProductsDiscontinuedEvent{
			BaseEvent:  newBaseEvent(models.EventTypeProductsDiscontinued),
			ProductIDs: discontinued,
		}
		if err := s.events.PublishProductsDiscontinued(ctx, event); err != nil {
			s.logger.Error("Failed to publish ProductsDiscontinued event", zap.Error(err))
		}
	}
	return nil
}

// ImportProductsCSV inserts catalog rows from CSV text. Structural
// header problems fail the whole import; row problems (missing required
// value, bad price, duplicate SKU) skip the row and keep going.
func (s *CatalogService) ImportProductsCSV(ctx context.Context, text string) (*ImportResult, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ImportProductsCSV")
	defer span.End()

	_, rows, err := csvio.Parse(text, productImportRequired)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		reason := s.importProductRow(ctx, row)
		if reason == "" {
			result.Imported++
			continue
		}
		result.Skipped++
		util.ImportRowsSkippedTotal.WithLabelValues("products", reason).Inc()
	}

	util.ProductsImportedTotal.WithLabelValues("products").Add(float64(result.Imported))
	s.invalidateCatalog(ctx)
	if s.events != nil {
		event := &models.CatalogImportedEvent{
			BaseEvent: newBaseEvent(models.EventTypeCatalogImported),
			Entity:    "products",
			Imported:  result.Imported,
			Skipped:   result.Skipped,
		}
		if err := s.events.PublishCatalogImported(ctx, event); err != nil {
			s.logger.Error("Failed to publish CatalogImported event", zap.Error(err))
		}
	}
	s.logger.Info("Product CSV import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// importProductRow returns an empty string on success or a skip reason.
func (s *CatalogService) importProductRow(ctx context.Context, row csvio.Row) string {
	for _, field := range productImportRequired {
		if row[field] == "" {
			return "missing_field"
		}
	}

	price, err := strconv.ParseFloat(row["sellingPrice"], 64)
	if err != nil || price < 0 {
		return "invalid_price"
	}

	stock := 0
	if raw := row["stock"]; raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			stock = parsed
		}
	}

	supplierPrice := 0.0
	if raw := row["supplierPrice"]; raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 {
			supplierPrice = parsed
		}
	}

	existing, err := s.store.GetProductBySKU(ctx, row["sku"])
	if err != nil {
		s.logger.Warn("SKU lookup failed during import", zap.Error(err))
		return "lookup_failed"
	}
	if existing != nil {
		return "duplicate_sku"
	}

	var supplierID int64
	if raw := row["supplierId"]; raw != "" {
		supplierID, _ = strconv.ParseInt(raw, 10, 64)
	}

	product := &models.Product{
		Name:          row["name"],
		SKU:           row["sku"],
		Description:   row["description"],
		Category:      row["category"],
		SellingPrice:  price,
		SupplierPrice: supplierPrice,
		Stock:         stock,
		SupplierID:    supplierID,
		Images:        csvio.SplitList(row["images"]),
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.logger.Warn("Failed to insert imported product", zap.String("sku", product.SKU), zap.Error(err))
		return "insert_failed"
	}
	return ""
}

// ExportProductsCSV renders the catalog as CSV and returns the dated
// download filename alongside the content.
func (s *CatalogService) ExportProductsCSV(ctx context.Context) (string, string, error) {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return "", "", err
	}

	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.SKU,
			strconv.FormatFloat(p.SellingPrice, 'f', -1, 64),
			p.Category,
			strconv.Itoa(p.Stock),
			p.Description,
			strconv.FormatFloat(p.SupplierPrice, 'f', -1, 64),
			csvio.JoinList(p.Images),
		})
	}

	util.CSVExportsTotal.WithLabelValues("products").Inc()
	return csvio.Filename("products", time.Now()), csvio.Marshal(productExportHeaders, records), nil
}

func (s *CatalogService) invalidateCatalog(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

// lockBulk takes the advisory lock for a bulk operation kind. With no
// Redis configured it degrades to a no-op.
func (s *CatalogService) lockBulk(ctx context.Context, kind string) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("bulk:%s", kind)
	ok, err := s.redis.AcquireLock(ctx, key, 30*time.Second)
	if err != nil {
		s.logger.Warn("Bulk lock unavailable, proceeding without it", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, apperr.Validation("another %s operation is already in progress", kind)
	}
	return func() {
		if err := s.redis.ReleaseLock(context.Background(), key); err != nil {
			s.logger.Warn("Failed to release bulk lock", zap.Error(err))
		}
	}, nil
}

func (s *CatalogService) publishBulkPrices(ctx context.Context, ids []int64, adjustment string, value float64, updated int) {
	if s.events == nil {
		return
	}
	event := &models.BulkPricesUpdatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeBulkPricesUpdated),
		ProductIDs: ids,
		Adjustment: adjustment,
		Value:      value,
		Updated:    updated,
	}
	if err := s.events.PublishBulkPricesUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish BulkPricesUpdated event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
