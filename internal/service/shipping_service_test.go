package service

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"dropflow-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShippingService() *ShippingService {
	return NewShippingService(rand.New(rand.NewSource(1)))
}

func validRateRequest() RateRequest {
	return RateRequest{
		Destination: "Portland, OR",
		Weight:      2,
		Dimensions:  Dimensions{Length: 10, Width: 8, Height: 6},
	}
}

func TestBillableWeight(t *testing.T) {
	// 12*12*4/166 = 3.47, dominates the 2 lb actual weight
	billable := BillableWeight(2, Dimensions{Length: 12, Width: 12, Height: 4})
	assert.InDelta(t, 3.47, billable, 0.01)

	// light dims, actual weight wins
	assert.Equal(t, 10.0, BillableWeight(10, Dimensions{Length: 6, Width: 4, Height: 2}))
}

func TestZoneFactor(t *testing.T) {
	assert.Equal(t, 0.9, ZoneFactor("Local pickup point"))
	assert.Equal(t, 0.9, ZoneFactor("nearby warehouse"))
	assert.Equal(t, 1.3, ZoneFactor("Los Angeles, California"))
	assert.Equal(t, 1.3, ZoneFactor("Austin, Texas"))
	assert.Equal(t, 2.1, ZoneFactor("Toronto, Canada"))
	assert.Equal(t, 2.1, ZoneFactor("international shipment"))
	assert.Equal(t, 1.1, ZoneFactor("Portland, OR"))

	// first matching rule wins
	assert.Equal(t, 0.9, ZoneFactor("local depot, Texas"))
}

func TestCalculateRatesReturnsNineSortedQuotes(t *testing.T) {
	svc := newShippingService()

	quotes, err := svc.CalculateRates(context.Background(), validRateRequest())
	require.NoError(t, err)
	require.Len(t, quotes, 9)

	assert.True(t, sort.SliceIsSorted(quotes, func(i, j int) bool {
		return quotes[i].Cost < quotes[j].Cost
	}), "quotes are sorted ascending by cost")

	for _, q := range quotes {
		assert.Positive(t, q.Cost)
		assert.NotEmpty(t, q.DeliveryTime)
	}
}

func TestCalculateRatesRecommendsUSPSPriorityMail(t *testing.T) {
	svc := newShippingService()

	for i := 0; i < 20; i++ {
		quotes, err := svc.CalculateRates(context.Background(), validRateRequest())
		require.NoError(t, err)

		recommended := make([]models.ShippingQuote, 0, 1)
		for _, q := range quotes {
			if q.Recommended {
				recommended = append(recommended, q)
			}
		}
		require.Len(t, recommended, 1)
		assert.Equal(t, models.CarrierUSPS, recommended[0].Carrier)
		assert.Equal(t, "Priority Mail", recommended[0].Service)
	}
}

func TestCalculateRatesJitterFloor(t *testing.T) {
	svc := newShippingService()

	// pre-jitter baseline for the cheapest row: USPS Ground Advantage
	billable := BillableWeight(2, Dimensions{Length: 10, Width: 8, Height: 6})
	zone := ZoneFactor("Portland, OR")
	baseline := (8.50 + billable*0.85) * 1.0 * zone

	for i := 0; i < 50; i++ {
		quotes, err := svc.CalculateRates(context.Background(), validRateRequest())
		require.NoError(t, err)

		for _, q := range quotes {
			if q.Carrier == models.CarrierUSPS && q.Service == "Ground Advantage" {
				assert.GreaterOrEqual(t, q.Cost, baseline*0.9-0.01)
				assert.LessOrEqual(t, q.Cost, baseline+2.01)
			}
		}
	}
}

func TestCalculateRatesZoneScaling(t *testing.T) {
	local := newShippingService()
	intl := newShippingService()

	req := validRateRequest()
	req.Destination = "local"
	localQuotes, err := local.CalculateRates(context.Background(), req)
	require.NoError(t, err)

	req.Destination = "Mexico City, Mexico"
	intlQuotes, err := intl.CalculateRates(context.Background(), req)
	require.NoError(t, err)

	// international costs dwarf local ones even with jitter
	assert.Greater(t, intlQuotes[0].Cost, localQuotes[0].Cost)
	assert.Greater(t, intlQuotes[8].Cost, localQuotes[8].Cost)
}

func TestCalculateRatesValidation(t *testing.T) {
	svc := newShippingService()
	ctx := context.Background()

	req := validRateRequest()
	req.Destination = "  "
	_, err := svc.CalculateRates(ctx, req)
	assert.Error(t, err)

	req = validRateRequest()
	req.Weight = 0
	_, err = svc.CalculateRates(ctx, req)
	assert.Error(t, err)

	req = validRateRequest()
	req.Dimensions.Height = -1
	_, err = svc.CalculateRates(ctx, req)
	assert.Error(t, err)
}

func TestCarriers(t *testing.T) {
	svc := newShippingService()

	carriers := svc.Carriers()
	require.Len(t, carriers, 3)

	codes := make([]string, 0, len(carriers))
	for _, c := range carriers {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"USPS", "FEDEX", "UPS"}, codes)
}

func TestServiceTypes(t *testing.T) {
	svc := newShippingService()

	usps := svc.ServiceTypes("usps")
	require.Len(t, usps, 3)
	assert.Equal(t, "Priority Mail", usps[1].Name)

	assert.Empty(t, svc.ServiceTypes("DHL"))
}
