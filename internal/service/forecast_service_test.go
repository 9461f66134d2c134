package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type forecastFixture struct {
	*fixture
	svc *ForecastService
}

func newForecastFixture() *forecastFixture {
	f := newFixture()
	return &forecastFixture{
		fixture: f,
		svc:     NewForecastService(f.store, f.store, f.store, f.store, nil, 3, 2),
	}
}

func (f *forecastFixture) addEvent(t *testing.T, dishID int64, servings string, daysAgo int) {
	t.Helper()
	err := f.store.WithOrgLock(context.Background(), testOrg, func(tx repository.LedgerTx) error {
		_, err := tx.AppendEvent(&domain.ConsumptionEvent{
			OrgID:      testOrg,
			DishID:     dishID,
			Servings:   d(servings),
			OccurredAt: time.Now().AddDate(0, 0, -daysAgo),
		})
		return err
	})
	require.NoError(t, err)
}

func TestPredictStockouts_DerivesUsageFromEventLog(t *testing.T) {
	f := newForecastFixture()
	flour := f.addType(t, "All-Purpose Flour", "Dry Goods")
	dish := f.addDish(t, "Garlic Bread", line(flour, "2", "lbs"))
	f.addBatch(t, flour, "5", "lbs", daysFromNow(60))

	// 10 servings over the window at 2 lbs each: 20 lbs consumed,
	// 20/30 = 0.67/day average, 5 lbs on hand = 7.5 days of runway.
	for day := 1; day <= 10; day++ {
		f.addEvent(t, dish, "1", day)
	}

	forecast, err := f.svc.PredictStockouts(context.Background(), testOrg, 3, 2)
	require.NoError(t, err)

	require.Len(t, forecast.Predictions, 1)
	p := forecast.Predictions[0]
	assert.Equal(t, "All-Purpose Flour", p.Ingredient)
	assert.Equal(t, "lbs", p.Unit)
	assert.Equal(t, "5", p.CurrentStock.String())
	assert.Equal(t, "0.67", p.AvgDailyUsage.String())
	require.NotNil(t, p.DaysUntilStockout)
	assert.Equal(t, "7.5", p.DaysUntilStockout.String())
	assert.Equal(t, domain.UrgencyOK, p.Urgency)
	assert.False(t, p.NeedsReorder)

	assert.Equal(t, 1, forecast.Summary.OK)
	assert.Equal(t, 100, forecast.Summary.HealthScore)
}

func TestPredictStockouts_Idempotent(t *testing.T) {
	f := newForecastFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	dish := f.addDish(t, "Bread", line(flour, "1", "lbs"))
	f.addBatch(t, flour, "4", "lbs", daysFromNow(60))
	for day := 1; day <= 5; day++ {
		f.addEvent(t, dish, "3", day)
	}

	first, err := f.svc.PredictStockouts(context.Background(), testOrg, 3, 2)
	require.NoError(t, err)
	second, err := f.svc.PredictStockouts(context.Background(), testOrg, 3, 2)
	require.NoError(t, err)

	// Forecasting only reads; batch levels and results are unchanged.
	assert.Equal(t, first.Summary, second.Summary)
	require.Len(t, second.Predictions, 1)
	assert.Equal(t, "4", second.Predictions[0].CurrentStock.String())
}

func TestBuildForecast_UrgencyBuckets(t *testing.T) {
	// 30 consumed over the 30-day window = 1/day average everywhere.
	usage := map[usageKey]usageTotal{
		{typeID: 1, unit: "lbs"}: {name: "Depleted", category: "Protein", consumed: d("30")},
		{typeID: 2, unit: "lbs"}: {name: "Critical", category: "Protein", consumed: d("30")},
		{typeID: 3, unit: "lbs"}: {name: "Warning", category: "Produce", consumed: d("30")},
		{typeID: 4, unit: "lbs"}: {name: "Healthy", category: "Dairy", consumed: d("30")},
	}
	totals := []domain.StockTotal{
		{IngredientTypeID: 2, IngredientName: "Critical", Category: "Protein", Unit: "lbs", Quantity: d("3")},
		{IngredientTypeID: 3, IngredientName: "Warning", Category: "Produce", Unit: "lbs", Quantity: d("5")},
		{IngredientTypeID: 4, IngredientName: "Healthy", Category: "Dairy", Unit: "lbs", Quantity: d("10")},
		{IngredientTypeID: 5, IngredientName: "Dormant", Category: "Dry Goods", Unit: "lbs", Quantity: d("8")},
	}

	forecast := buildForecast(usage, totals, 3, 2)

	require.Len(t, forecast.Predictions, 5)
	assert.Equal(t, "Depleted", forecast.Predictions[0].Ingredient)
	assert.Equal(t, domain.UrgencyStockout, forecast.Predictions[0].Urgency)
	assert.Equal(t, "Critical", forecast.Predictions[1].Ingredient)
	assert.Equal(t, domain.UrgencyCritical, forecast.Predictions[1].Urgency)
	assert.Equal(t, "Warning", forecast.Predictions[2].Ingredient)
	assert.Equal(t, domain.UrgencyWarning, forecast.Predictions[2].Urgency)
	assert.Equal(t, "Healthy", forecast.Predictions[3].Ingredient)
	assert.Equal(t, domain.UrgencyOK, forecast.Predictions[3].Urgency)
	// No usage data sorts last: healthy bucket, unknown runway.
	assert.Equal(t, "Dormant", forecast.Predictions[4].Ingredient)
	assert.Nil(t, forecast.Predictions[4].DaysUntilStockout)
	assert.False(t, forecast.Predictions[4].NeedsReorder)

	// Suggested quantity targets lead time + 7 days of cover.
	assert.Equal(t, "10", forecast.Predictions[0].SuggestedQty.String())
	assert.Equal(t, "7", forecast.Predictions[1].SuggestedQty.String())
	assert.Equal(t, "5", forecast.Predictions[2].SuggestedQty.String())
	assert.Equal(t, "0", forecast.Predictions[3].SuggestedQty.String())

	assert.Equal(t, domain.ForecastSummary{
		Stockout:    1,
		Critical:    1,
		Warning:     1,
		OK:          1,
		NoUsageData: 1,
		HealthScore: 40,
	}, forecast.Summary)
}

func TestReplayUsage_SkipsDeletedDishesAndIncompleteLines(t *testing.T) {
	recipes := map[int64][]domain.RecipeLine{
		1: {
			line(10, "0.5", "lbs"),
			{IngredientTypeID: 11}, // no quantity, no unit
		},
	}
	events := []domain.ConsumptionEvent{
		{DishID: 1, Servings: d("4")},
		{DishID: 2, Servings: d("100")}, // dish deleted since
	}

	usage := replayUsage(events, recipes)

	require.Len(t, usage, 1)
	total := usage[usageKey{typeID: 10, unit: "lbs"}]
	assert.Equal(t, "2", total.consumed.String())
}

func TestHealthScore_EmptyLedgerIsHealthy(t *testing.T) {
	forecast := buildForecast(map[usageKey]usageTotal{}, nil, 3, 2)
	assert.Empty(t, forecast.Predictions)
	assert.Equal(t, 100, forecast.Summary.HealthScore)
}

func TestResolveSettings_FallsBackToDefaults(t *testing.T) {
	f := newForecastFixture()

	lead, buffer, err := f.svc.ResolveSettings(context.Background(), testOrg)
	require.NoError(t, err)
	assert.Equal(t, 3, lead)
	assert.Equal(t, 2, buffer)

	err = f.svc.UpdateSettings(context.Background(), &domain.OrgSettings{
		OrgID:              testOrg,
		LeadTimeDays:       5,
		LowStockBufferDays: 4,
	})
	require.NoError(t, err)

	lead, buffer, err = f.svc.ResolveSettings(context.Background(), testOrg)
	require.NoError(t, err)
	assert.Equal(t, 5, lead)
	assert.Equal(t, 4, buffer)
}

func TestUpdateSettings_RejectsNegativeValues(t *testing.T) {
	f := newForecastFixture()
	err := f.svc.UpdateSettings(context.Background(), &domain.OrgSettings{
		OrgID:        testOrg,
		LeadTimeDays: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
