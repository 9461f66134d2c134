package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "reorder/42/20260314T092653.csv", ObjectKey(42, at))
}

func TestRenderReorderCSV(t *testing.T) {
	days := d("2.5")
	suggestions := []domain.ReorderSuggestion{
		{
			StockoutPrediction: domain.StockoutPrediction{
				Ingredient:        "Ground Beef",
				Category:          "Protein",
				Unit:              "lbs",
				CurrentStock:      d("2"),
				AvgDailyUsage:     d("0.8"),
				DaysUntilStockout: &days,
				Urgency:           domain.UrgencyCritical,
				NeedsReorder:      true,
				SuggestedQty:      d("6"),
			},
			VendorOffers: []domain.VendorOffer{
				{Vendor: "Metro Provisions", PricePerUnit: d("4.20")},
				{Vendor: "Harvest Direct", PricePerUnit: d("3.75")},
				{Vendor: "Primo Supply Co", PricePerUnit: d("5.10")},
			},
		},
	}

	data, err := RenderReorderCSV(suggestions)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Ingredient", records[0][0])
	row := records[1]
	assert.Equal(t, "Ground Beef", row[0])
	assert.Equal(t, "2.00", row[3])
	assert.Equal(t, "2.5", row[5])
	assert.Equal(t, "critical", row[6])
	assert.Equal(t, "Harvest Direct", row[8])
	assert.Equal(t, "3.75", row[9])
}

func TestRenderReorderCSV_EmptyHasHeaderOnly(t *testing.T) {
	data, err := RenderReorderCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
