package service

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"sync"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/csvio"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/store"
	"dropflow-admin/internal/util"

	"go.uber.org/zap"
)

var (
	supplierImportRequired = []string{"name", "email", "contact"}
	supplierExportHeaders  = []string{"id", "name", "email", "contact", "location", "rating", "status", "shippingTime", "products", "apiEndpoint"}

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SupplierService handles supplier queries, the synthetic performance
// estimator and CSV import/export.
type SupplierService struct {
	store  store.Store
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSupplierService creates a new supplier service. rng drives the
// performance estimator; tests pass a seeded source.
func NewSupplierService(st store.Store, rng *rand.Rand) *SupplierService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SupplierService{
		store:  st,
		logger: util.GetLogger(),
		rng:    rng,
	}
}

// ListSuppliers returns all suppliers.
func (s *SupplierService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.GetSuppliers(ctx)
}

// GetSupplier returns a single supplier by id.
func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	return s.store.GetSupplierByID(ctx, id)
}

// CreateSupplier validates and inserts a supplier.
func (s *SupplierService) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	if supplier.Name == "" {
		return apperr.Validation("supplier name is required")
	}
	if supplier.Email != "" && !emailPattern.MatchString(supplier.Email) {
		return apperr.Validation("invalid email format: %s", supplier.Email)
	}
	if supplier.Rating < 0 || supplier.Rating > 5 {
		return apperr.Validation("rating must be between 0 and 5")
	}
	if supplier.Status == "" {
		supplier.Status = "active"
	}
	return s.store.CreateSupplier(ctx, supplier)
}

// UpdateSupplier applies a partial update.
func (s *SupplierService) UpdateSupplier(ctx context.Context, id int64, patch models.SupplierPatch) (*models.Supplier, error) {
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		return nil, apperr.Validation("rating must be between 0 and 5")
	}
	if patch.Email != nil && *patch.Email != "" && !emailPattern.MatchString(*patch.Email) {
		return nil, apperr.Validation("invalid email format: %s", *patch.Email)
	}
	return s.store.UpdateSupplier(ctx, id, patch)
}

// DeleteSupplier removes a supplier by id.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.store.DeleteSupplier(ctx, id)
}

// ConnectedSuppliers returns suppliers with an API integration.
func (s *SupplierService) ConnectedSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.GetConnectedSuppliers(ctx)
}

// TopRatedSuppliers returns suppliers at or above minRating.
func (s *SupplierService) TopRatedSuppliers(ctx context.Context, minRating float64) ([]models.Supplier, error) {
	return s.store.GetTopRatedSuppliers(ctx, minRating)
}

// PerformanceMetrics derives synthetic metrics for every supplier. The
// estimator is deliberately non-deterministic: repeat calls return
// different numbers for the same supplier, only the documented ranges
// hold.
func (s *SupplierService) PerformanceMetrics(ctx context.Context) ([]models.SupplierPerformance, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.PerformanceMetrics")
	defer span.End()

	suppliers, err := s.store.GetSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	metrics := make([]models.SupplierPerformance, 0, len(suppliers))
	s.mu.Lock()
	for _, supplier := range suppliers {
		metrics = append(metrics, EstimatePerformance(supplier.ID, supplier.Rating, s.rng))
	}
	s.mu.Unlock()

	util.PerformanceFetchesTotal.Inc()
	return metrics, nil
}

// EstimatePerformance derives one supplier's synthetic metrics from its
// rating. On-time delivery lands in [70,100], accuracy in [85,100] with
// a center skewed positive, processing time in [1,72] hours, trend in
// [-4,4] hours and order volume in [20,200).
func EstimatePerformance(supplierID int64, rating float64, rng *rand.Rand) models.SupplierPerformance {
	base := (rating / 5) * 100
	variation := 5 + rng.Float64()*10

	onTime := clamp(base+(rng.Float64()-0.5)*variation, 70, 100)
	accuracy := clamp(base+(rng.Float64()-0.3)*(variation*0.8), 85, 100)
	processing := clamp(48-(base-80)*0.5+(rng.Float64()-0.5)*20, 1, 72)
	trend := (rng.Float64() - 0.5) * 8
	totalOrders := int(20 + rng.Float64()*180)

	return models.SupplierPerformance{
		SupplierID:        supplierID,
		OnTimeDelivery:    round1(onTime),
		Accuracy:          round1(accuracy),
		AvgProcessingTime: round1(processing),
		ProcessingTrend:   round1(trend),
		TotalOrders:       totalOrders,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ImportSuppliersCSV inserts supplier rows from CSV text. Rows with a
// missing required value, a malformed email or a duplicate email are
// skipped; an out-of-range rating falls back to 0.
func (s *SupplierService) ImportSuppliersCSV(ctx context.Context, text string) (*ImportResult, error) {
	ctx, span := util.StartSpan(ctx, "SupplierService.ImportSuppliersCSV")
	defer span.End()

	_, rows, err := csvio.Parse(text, supplierImportRequired)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		reason := s.importSupplierRow(ctx, row)
		if reason == "" {
			result.Imported++
			continue
		}
		result.Skipped++
		util.ImportRowsSkippedTotal.WithLabelValues("suppliers", reason).Inc()
	}

	util.ProductsImportedTotal.WithLabelValues("suppliers").Add(float64(result.Imported))
	s.logger.Info("Supplier CSV import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *SupplierService) importSupplierRow(ctx context.Context, row csvio.Row) string {
	for _, field := range supplierImportRequired {
		if row[field] == "" {
			return "missing_field"
		}
	}

	if !emailPattern.MatchString(row["email"]) {
		return "invalid_email"
	}

	rating := 0.0
	if raw := row["rating"]; raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 5 {
			rating = parsed
		}
	}

	existing, err := s.store.GetSupplierByEmail(ctx, row["email"])
	if err != nil {
		s.logger.Warn("Email lookup failed during import", zap.Error(err))
		return "lookup_failed"
	}
	if existing != nil {
		return "duplicate_email"
	}

	status := row["status"]
	if status == "" {
		status = "active"
	}

	supplier := &models.Supplier{
		Name:         row["name"],
		Email:        row["email"],
		Contact:      row["contact"],
		Location:     row["location"],
		Rating:       rating,
		Status:       status,
		ShippingTime: row["shippingTime"],
		Products:     csvio.SplitList(row["products"]),
		APIEndpoint:  row["apiEndpoint"],
	}
	if err := s.store.CreateSupplier(ctx, supplier); err != nil {
		s.logger.Warn("Failed to insert imported supplier", zap.String("email", supplier.Email), zap.Error(err))
		return "insert_failed"
	}
	return ""
}

// ExportSuppliersCSV renders all suppliers as CSV with the dated
// download filename.
func (s *SupplierService) ExportSuppliersCSV(ctx context.Context) (string, string, error) {
	suppliers, err := s.store.GetSuppliers(ctx)
	if err != nil {
		return "", "", err
	}

	records := make([][]string, 0, len(suppliers))
	for _, sup := range suppliers {
		records = append(records, []string{
			strconv.FormatInt(sup.ID, 10),
			sup.Name,
			sup.Email,
			sup.Contact,
			sup.Location,
			strconv.FormatFloat(sup.Rating, 'f', -1, 64),
			sup.Status,
			sup.ShippingTime,
			csvio.JoinList(sup.Products),
			sup.APIEndpoint,
		})
	}

	util.CSVExportsTotal.WithLabelValues("suppliers").Inc()
	return csvio.Filename("suppliers", time.Now()), csvio.Marshal(supplierExportHeaders, records), nil
}
