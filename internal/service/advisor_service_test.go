package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/domain"
)

func TestVendorOffers_Deterministic(t *testing.T) {
	first := VendorOffers("Chicken Breast", "lbs", d("12"))
	second := VendorOffers("Chicken Breast", "lbs", d("12"))

	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	seen := make(map[string]bool)
	for _, offer := range first {
		assert.False(t, seen[offer.Vendor], "vendor %s offered twice", offer.Vendor)
		seen[offer.Vendor] = true

		assert.True(t, offer.PricePerUnit.GreaterThanOrEqual(d("1.50")),
			"price %s below floor", offer.PricePerUnit)
		assert.True(t, offer.PricePerUnit.LessThanOrEqual(d("12.00")),
			"price %s above ceiling", offer.PricePerUnit)
		assert.True(t, offer.Rating.GreaterThanOrEqual(d("3.0")))
		assert.True(t, offer.Rating.LessThanOrEqual(d("5.0")))
		assert.GreaterOrEqual(t, offer.LeadTimeDays, 1)
		assert.LessOrEqual(t, offer.LeadTimeDays, 7)
	}
}

func TestVendorOffers_VaryByIngredient(t *testing.T) {
	chicken := VendorOffers("Chicken Breast", "lbs", d("5"))
	salmon := VendorOffers("Salmon Fillet", "lbs", d("5"))
	assert.NotEqual(t, chicken, salmon)
}

func TestDepletionProjection_FloorsAtZero(t *testing.T) {
	points := DepletionProjection(d("5"), d("2"), 7)

	require.Len(t, points, 7)
	assert.Equal(t, 1, points[0].Day)
	assert.Equal(t, "3", points[0].RemainingStock.String())
	assert.Equal(t, "1", points[1].RemainingStock.String())
	for _, p := range points[2:] {
		assert.Equal(t, "0", p.RemainingStock.String())
	}
}

func TestReorderSuggestions_OnlyDecoratesReorderRows(t *testing.T) {
	f := newForecastFixture()
	advisor := NewAdvisorService(f.svc)

	beef := f.addType(t, "Ground Beef", "Protein")
	rice := f.addType(t, "White Rice", "Dry Goods")
	tacos := f.addDish(t, "Beef Tacos", line(beef, "1", "lbs"))
	bowls := f.addDish(t, "Rice Bowl", line(rice, "1", "lbs"))

	// Beef burns 1 lb/day with only 2 days of cover; rice has plenty.
	f.addBatch(t, beef, "2", "lbs", daysFromNow(5))
	f.addBatch(t, rice, "50", "lbs", daysFromNow(90))
	for day := 0; day < 30; day++ {
		f.addEvent(t, tacos, "1", day)
		f.addEvent(t, bowls, "1", day)
	}

	suggestions, err := advisor.ReorderSuggestions(context.Background(), testOrg, 3, 2)
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, "Ground Beef", s.Ingredient)
	assert.Equal(t, domain.UrgencyCritical, s.Urgency)
	assert.True(t, s.NeedsReorder)
	// 1/day over lead time 3 + 7 days of cover, minus 2 on hand.
	assert.Equal(t, "8", s.SuggestedQty.String())
	assert.Len(t, s.VendorOffers, 3)
	require.Len(t, s.Projection, 7)
	assert.Equal(t, "1", s.Projection[0].RemainingStock.String())
	assert.Equal(t, "0", s.Projection[1].RemainingStock.String())
}
