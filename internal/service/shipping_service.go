package service

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"
	"dropflow-admin/internal/util"

	"go.uber.org/zap"
)

// dimDivisor is the domestic DIM divisor: dimensional weight is
// L*W*H/166.
const dimDivisor = 166

type rateRow struct {
	carrier      string
	service      string
	deliveryTime string
	base         float64
	perLb        float64
	multiplier   float64
	recommended  bool
}

// The fixed carrier/service table. USPS Priority Mail carries the
// recommended flag as a fixed business rule, independent of how its
// final cost ranks.
var rateTable = []rateRow{
	{models.CarrierUSPS, "Ground Advantage", "3-5 business days", 8.50, 0.85, 1.0, false},
	{models.CarrierUSPS, "Priority Mail", "1-3 business days", 12.80, 1.25, 1.2, true},
	{models.CarrierUSPS, "Priority Mail Express", "1-2 business days", 22.95, 2.15, 1.5, false},
	{models.CarrierFedEx, "Ground", "3-5 business days", 10.20, 1.05, 1.1, false},
	{models.CarrierFedEx, "2Day", "2 business days", 25.50, 2.35, 1.3, false},
	{models.CarrierFedEx, "Overnight", "Next business day", 45.80, 3.85, 1.8, false},
	{models.CarrierUPS, "Ground", "3-5 business days", 9.85, 0.95, 1.05, false},
	{models.CarrierUPS, "2nd Day Air", "2 business days", 24.75, 2.25, 1.25, false},
	{models.CarrierUPS, "Next Day Air", "Next business day", 48.20, 4.15, 1.9, false},
}

var carriers = []models.Carrier{
	{Code: "USPS", Name: "United States Postal Service"},
	{Code: "FEDEX", Name: "FedEx"},
	{Code: "UPS", Name: "United Parcel Service"},
}

var serviceTypes = map[string][]models.ServiceType{
	"USPS": {
		{Code: "GROUND", Name: "Ground Advantage", DeliveryDays: "3-5"},
		{Code: "PRIORITY", Name: "Priority Mail", DeliveryDays: "1-3"},
		{Code: "EXPRESS", Name: "Priority Mail Express", DeliveryDays: "1-2"},
	},
	"FEDEX": {
		{Code: "GROUND", Name: "Ground", DeliveryDays: "3-5"},
		{Code: "2DAY", Name: "2Day", DeliveryDays: "2"},
		{Code: "OVERNIGHT", Name: "Overnight", DeliveryDays: "1"},
	},
	"UPS": {
		{Code: "GROUND", Name: "Ground", DeliveryDays: "3-5"},
		{Code: "2DAY", Name: "2nd Day Air", DeliveryDays: "2"},
		{Code: "NEXTDAY", Name: "Next Day Air", DeliveryDays: "1"},
	},
}

// ShippingService computes carrier rate quotes.
type ShippingService struct {
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewShippingService creates a new shipping service. rng drives the
// per-quote cost jitter; tests pass a seeded source.
func NewShippingService(rng *rand.Rand) *ShippingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ShippingService{
		logger: util.GetLogger(),
		rng:    rng,
	}
}

// Dimensions is a package size in inches.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RateRequest is the input to a rate calculation. Weight is in pounds.
type RateRequest struct {
	Destination string     `json:"destination"`
	Weight      float64    `json:"weight"`
	Dimensions  Dimensions `json:"dimensions"`
	OrderValue  float64    `json:"orderValue"`
}

// BillableWeight returns the greater of actual and dimensional weight.
func BillableWeight(weight float64, dims Dimensions) float64 {
	dimensional := (dims.Length * dims.Width * dims.Height) / dimDivisor
	return math.Max(weight, dimensional)
}

// ZoneFactor approximates distance cost impact from the destination
// text. Rules are checked in priority order; the first match wins.
func ZoneFactor(destination string) float64 {
	dest := strings.ToLower(destination)

	if strings.Contains(dest, "local") || strings.Contains(dest, "nearby") {
		return 0.9
	}
	for _, state := range []string{"california", "florida", "new york", "texas"} {
		if strings.Contains(dest, state) {
			return 1.3
		}
	}
	for _, intl := range []string{"canada", "mexico", "international"} {
		if strings.Contains(dest, intl) {
			return 2.1
		}
	}
	return 1.1
}

// CalculateRates produces the full list of nine quotes for a package,
// sorted ascending by final cost, with USPS Priority Mail flagged as
// recommended.
func (s *ShippingService) CalculateRates(ctx context.Context, req RateRequest) ([]models.ShippingQuote, error) {
	_, span := util.StartSpan(ctx, "ShippingService.CalculateRates")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ShippingCalcLatency.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.Destination) == "" {
		return nil, apperr.Validation("destination is required")
	}
	if req.Weight <= 0 {
		return nil, apperr.Validation("weight must be positive")
	}
	if req.Dimensions.Length <= 0 || req.Dimensions.Width <= 0 || req.Dimensions.Height <= 0 {
		return nil, apperr.Validation("package dimensions must be positive")
	}

	billable := BillableWeight(req.Weight, req.Dimensions)
	zone := ZoneFactor(req.Destination)

	quotes := make([]models.ShippingQuote, 0, len(rateTable))
	s.mu.Lock()
	for _, row := range rateTable {
		cost := (row.base + billable*row.perLb) * row.multiplier * zone

		// ±$2 jitter simulating real-world variation, floored so a
		// quote never drops below 90% of its computed cost.
		jitter := (s.rng.Float64() - 0.5) * 4
		cost = math.Max(cost+jitter, cost*0.9)

		quotes = append(quotes, models.ShippingQuote{
			Carrier:      row.carrier,
			Service:      row.service,
			Cost:         math.Round(cost*100) / 100,
			DeliveryTime: row.deliveryTime,
			Recommended:  row.recommended,
		})
	}
	s.mu.Unlock()

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Cost < quotes[j].Cost })

	util.ShippingQuotesTotal.Inc()
	s.logger.Debug("Shipping rates calculated",
		zap.String("destination", req.Destination),
		zap.Float64("billable_weight", billable),
		zap.Float64("zone_factor", zone))
	return quotes, nil
}

// Carriers returns the supported carrier list.
func (s *ShippingService) Carriers() []models.Carrier {
	return carriers
}

// ServiceTypes returns the service tiers for a carrier code. Unknown
// codes yield an empty list.
func (s *ShippingService) ServiceTypes(carrierCode string) []models.ServiceType {
	return serviceTypes[strings.ToUpper(carrierCode)]
}
