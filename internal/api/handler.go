package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/service"
	"dropflow-admin/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *service.CatalogService
	orders    *service.OrderService
	suppliers *service.SupplierService
	shipping  *service.ShippingService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	suppliers *service.SupplierService,
	shipping *service.ShippingService,
) *Handler {
	return &Handler{
		catalog:   catalog,
		orders:    orders,
		suppliers: suppliers,
		shipping:  shipping,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)
		v1.POST("/products/bulk/prices", h.bulkUpdatePrices)
		v1.POST("/products/bulk/discount", h.bulkApplyDiscount)
		v1.POST("/products/bulk/discontinue", h.bulkDiscontinue)
		v1.POST("/products/import", h.importProducts)
		v1.GET("/products/export", h.exportProducts)

		v1.GET("/orders", h.listOrders)
		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)
		v1.PUT("/orders/:id", h.updateOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)
		v1.POST("/orders/:id/advance", h.advanceOrderStatus)
		v1.GET("/orders/:id/shipping", h.orderShippingDetails)
		v1.GET("/orders/export", h.exportOrders)

		v1.GET("/suppliers", h.listSuppliers)
		v1.POST("/suppliers", h.createSupplier)
		v1.GET("/suppliers/:id", h.getSupplier)
		v1.PUT("/suppliers/:id", h.updateSupplier)
		v1.DELETE("/suppliers/:id", h.deleteSupplier)
		v1.GET("/suppliers/performance", h.supplierPerformance)
		v1.POST("/suppliers/import", h.importSuppliers)
		v1.GET("/suppliers/export", h.exportSuppliers)

		v1.POST("/shipping/rates", h.calculateRates)
		v1.GET("/shipping/carriers", h.listCarriers)
		v1.GET("/shipping/carriers/:code/services", h.listServiceTypes)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(apperr.StatusCode(err), gin.H{
			"code":  appErr.Code,
			"error": appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":  apperr.CodeInternal,
		"error": err.Error(),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func sendCSV(c *gin.Context, filename, content string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

// --- products ---

func (h *Handler) listProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		products []models.Product
		err      error
	)
	switch {
	case c.Query("q") != "":
		products, err = h.catalog.SearchProducts(ctx, c.Query("q"))
	case c.Query("category") != "":
		products, err = h.catalog.ProductsByCategory(ctx, c.Query("category"))
	case c.Query("stock") == "low":
		products, err = h.catalog.LowStockProducts(ctx)
	case c.Query("stock") == "out":
		products, err = h.catalog.OutOfStockProducts(ctx)
	default:
		products, err = h.catalog.ListProducts(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	product.ID = 0

	if err := h.catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type bulkPricesRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
	service.BulkUpdateRequest
}

func (h *Handler) bulkUpdatePrices(c *gin.Context) {
	var req bulkPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.catalog.BulkUpdatePrices(c.Request.Context(), req.IDs, req.BulkUpdateRequest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type bulkDiscountRequest struct {
	IDs     []int64 `json:"ids" binding:"required,min=1"`
	Percent float64 `json:"percent" binding:"required"`
}

func (h *Handler) bulkApplyDiscount(c *gin.Context) {
	var req bulkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	// the engine accepts any percent; range enforcement lives here
	if req.Percent <= 0 || req.Percent >= 100 {
		respondError(c, apperr.Validation("discount percent must be between 0 and 100 exclusive"))
		return
	}
	if err := h.catalog.BulkApplyDiscount(c.Request.Context(), req.IDs, req.Percent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type bulkDiscontinueRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

func (h *Handler) bulkDiscontinue(c *gin.Context) {
	var req bulkDiscontinueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.catalog.BulkDiscontinue(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) importProducts(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	result, err := h.catalog.ImportProductsCSV(c.Request.Context(), string(body))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportProducts(c *gin.Context) {
	filename, content, err := h.catalog.ExportProductsCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendCSV(c, filename, content)
}

// --- orders ---

func (h *Handler) listOrders(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		orders []models.Order
		err    error
	)
	switch {
	case c.Query("status") != "":
		orders, err = h.orders.OrdersByStatus(ctx, c.Query("status"))
	case c.Query("from") != "" && c.Query("to") != "":
		var from, to time.Time
		from, err = parseDate(c.Query("from"), false)
		if err == nil {
			to, err = parseDate(c.Query("to"), true)
		}
		if err != nil {
			respondError(c, apperr.Validation("invalid date range: %v", err))
			return
		}
		orders, err = h.orders.OrdersByDateRange(ctx, from, to)
	case c.Query("limit") != "":
		limit, convErr := strconv.Atoi(c.Query("limit"))
		if convErr != nil {
			respondError(c, apperr.Validation("invalid limit"))
			return
		}
		orders, err = h.orders.RecentOrders(ctx, limit)
	default:
		orders, err = h.orders.ListOrders(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// parseDate accepts a date or RFC3339 timestamp. Plain dates expand to
// the start or end of the day so ranges stay inclusive on both ends.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) createOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	order.ID = 0

	if err := h.orders.CreateOrder(c.Request.Context(), &order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) advanceOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) orderShippingDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	details, err := h.orders.ShippingDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) exportOrders(c *gin.Context) {
	filename, content, err := h.orders.ExportOrdersCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendCSV(c, filename, content)
}

// --- suppliers ---

func (h *Handler) listSuppliers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		suppliers []models.Supplier
		err       error
	)
	switch {
	case c.Query("connected") == "true":
		suppliers, err = h.suppliers.ConnectedSuppliers(ctx)
	case c.Query("min_rating") != "":
		minRating, convErr := strconv.ParseFloat(c.Query("min_rating"), 64)
		if convErr != nil {
			respondError(c, apperr.Validation("invalid min_rating"))
			return
		}
		suppliers, err = h.suppliers.TopRatedSuppliers(ctx, minRating)
	default:
		suppliers, err = h.suppliers.ListSuppliers(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	supplier, err := h.suppliers.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) createSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	supplier.ID = 0

	if err := h.suppliers.CreateSupplier(c.Request.Context(), &supplier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.SupplierPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	supplier, err := h.suppliers.UpdateSupplier(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.suppliers.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) supplierPerformance(c *gin.Context) {
	metrics, err := h.suppliers.PerformanceMetrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

func (h *Handler) importSuppliers(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	result, err := h.suppliers.ImportSuppliersCSV(c.Request.Context(), string(body))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportSuppliers(c *gin.Context) {
	filename, content, err := h.suppliers.ExportSuppliersCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendCSV(c, filename, content)
}

// --- shipping ---

func (h *Handler) calculateRates(c *gin.Context) {
	var req service.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	quotes, err := h.shipping.CalculateRates(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": quotes})
}

func (h *Handler) listCarriers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"carriers": h.shipping.Carriers()})
}

func (h *Handler) listServiceTypes(c *gin.Context) {
	services := h.shipping.ServiceTypes(c.Param("code"))
	if services == nil {
		services = []models.ServiceType{}
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
