// Package report renders reorder suggestions as CSV for download or
// archival.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/stocksense/backend-go/internal/domain"
)

// ObjectKey names an archived reorder report for an org.
func ObjectKey(orgID int64, at time.Time) string {
	return fmt.Sprintf("reorder/%d/%s.csv", orgID, at.Format("20060102T150405"))
}

// RenderReorderCSV writes one row per suggestion plus a cheapest-offer
// column, using the same external rounding as the API payloads.
func RenderReorderCSV(suggestions []domain.ReorderSuggestion) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"Ingredient", "Category", "Unit", "Current Stock", "Avg Daily Usage",
		"Days Until Stockout", "Urgency", "Suggested Qty", "Best Vendor", "Best Price Per Unit",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, s := range suggestions {
		days := ""
		if s.DaysUntilStockout != nil {
			days = s.DaysUntilStockout.StringFixed(1)
		}

		bestVendor, bestPrice := cheapestOffer(s.VendorOffers)

		record := []string{
			s.Ingredient,
			s.Category,
			s.Unit,
			s.CurrentStock.StringFixed(2),
			s.AvgDailyUsage.StringFixed(2),
			days,
			s.Urgency.String(),
			s.SuggestedQty.StringFixed(2),
			bestVendor,
			bestPrice,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cheapestOffer(offers []domain.VendorOffer) (vendor, price string) {
	if len(offers) == 0 {
		return "", ""
	}
	best := offers[0]
	for _, offer := range offers[1:] {
		if offer.PricePerUnit.LessThan(best.PricePerUnit) {
			best = offer
		}
	}
	return best.Vendor, best.PricePerUnit.StringFixed(2)
}
