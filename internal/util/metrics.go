package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsImportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_rows_imported_total",
		Help: "Total number of CSV rows imported",
	}, []string{"entity"})

	ImportRowsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_rows_skipped_total",
		Help: "Total number of CSV rows skipped during import",
	}, []string{"entity", "reason"})

	CSVExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_exports_total",
		Help: "Total number of CSV exports",
	}, []string{"entity"})

	BulkPriceUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_price_updates_total",
		Help: "Total number of products touched by bulk price operations",
	}, []string{"operation"})

	ProductsDiscontinuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_discontinued_total",
		Help: "Total number of products discontinued",
	})

	OrderStatusAdvancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_advances_total",
		Help: "Total number of order status advances",
	}, []string{"to_status"})

	ShippingQuotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipping_quotes_total",
		Help: "Total number of shipping rate calculations",
	})

	ShippingCalcLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipping_calc_latency_seconds",
		Help:    "Latency of shipping rate calculations",
		Buckets: prometheus.DefBuckets,
	})

	PerformanceFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplier_performance_fetches_total",
		Help: "Total number of supplier performance metric fetches",
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_total",
		Help: "Total number of low stock alerts raised",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
