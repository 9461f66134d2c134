package service

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
)

// projectionDays is the length of the stock-depletion runway attached
// to each suggestion.
const projectionDays = 7

var vendorPool = []string{
	"Harvest Direct",
	"Metro Provisions",
	"Bluefield Foods",
	"Cascade Wholesale",
	"Primo Supply Co",
	"Golden Gate Distributors",
}

// AdvisorService turns stockout predictions into ranked reorder
// suggestions with simulated vendor offers. The simulation itself is a
// pure function of the ingredient name so repeated calls are stable
// without persisting vendor data.
type AdvisorService struct {
	forecast *ForecastService
}

func NewAdvisorService(forecast *ForecastService) *AdvisorService {
	return &AdvisorService{forecast: forecast}
}

// ReorderSuggestions runs the forecast and decorates every item that
// needs reordering with vendor offers and a 7-day depletion projection.
// Ordering follows the forecast: urgency rank, then days to stockout.
func (s *AdvisorService) ReorderSuggestions(ctx context.Context, orgID int64, leadTimeDays, bufferDays int) ([]domain.ReorderSuggestion, error) {
	forecast, err := s.forecast.PredictStockouts(ctx, orgID, leadTimeDays, bufferDays)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.ReorderSuggestion, 0)
	for _, p := range forecast.Predictions {
		if !p.NeedsReorder {
			continue
		}
		suggestions = append(suggestions, domain.ReorderSuggestion{
			StockoutPrediction: p,
			VendorOffers:       VendorOffers(p.Ingredient, p.Unit, p.SuggestedQty),
			Projection:         DepletionProjection(p.CurrentStock, p.AvgDailyUsage, projectionDays),
		})
	}
	return suggestions, nil
}

// VendorOffers simulates three supplier quotes for an ingredient. The
// PRNG is seeded from an FNV-1a hash of the ingredient name, so the
// same ingredient always yields the same offers.
func VendorOffers(ingredient, unit string, suggestedQty decimal.Decimal) []domain.VendorOffer {
	h := fnv.New64a()
	h.Write([]byte(ingredient))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	// Pick three distinct vendors from the pool.
	order := rng.Perm(len(vendorPool))

	offers := make([]domain.VendorOffer, 0, 3)
	for i := 0; i < 3; i++ {
		// Price 1.50 - 12.00 per unit, rating 3.0 - 5.0.
		price := decimal.NewFromInt(int64(150 + rng.Intn(1051))).Div(decimal.NewFromInt(100))
		rating := decimal.NewFromInt(int64(30 + rng.Intn(21))).Div(decimal.NewFromInt(10))
		minOrder := decimal.NewFromInt(int64(1 + rng.Intn(10)))
		if suggestedQty.GreaterThan(minOrder.Mul(decimal.NewFromInt(3))) {
			// Large reorders attract bulk-only vendors.
			minOrder = suggestedQty.Div(decimal.NewFromInt(3)).Round(0)
		}
		offers = append(offers, domain.VendorOffer{
			Vendor:       vendorPool[order[i]],
			PricePerUnit: price,
			Rating:       rating,
			MinOrderQty:  minOrder,
			LeadTimeDays: 1 + rng.Intn(7),
		})
	}
	return offers
}

// DepletionProjection iteratively subtracts the average daily usage
// from current stock, flooring at zero.
func DepletionProjection(currentStock, avgDailyUsage decimal.Decimal, days int) []domain.DepletionPoint {
	points := make([]domain.DepletionPoint, 0, days)
	remaining := currentStock
	for day := 1; day <= days; day++ {
		remaining = remaining.Sub(avgDailyUsage)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		points = append(points, domain.DepletionPoint{
			Day:            day,
			RemainingStock: remaining.Round(2),
		})
	}
	return points
}
