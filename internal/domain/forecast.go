package domain

import "github.com/shopspring/decimal"

// Urgency classifies how badly an ingredient needs reordering
type Urgency int

const (
	UrgencyStockout Urgency = iota
	UrgencyCritical
	UrgencyWarning
	UrgencyOK
)

func (u Urgency) String() string {
	switch u {
	case UrgencyStockout:
		return "stockout"
	case UrgencyCritical:
		return "critical"
	case UrgencyWarning:
		return "warning"
	case UrgencyOK:
		return "ok"
	default:
		return "unknown"
	}
}

// MarshalText lets urgency render as its bucket name in JSON payloads
func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// StockoutPrediction is one forecast row for an (ingredient, unit) pair.
// DaysUntilStockout is nil when there is no usage data in the window;
// such rows are treated as healthy/unknown, never urgent.
type StockoutPrediction struct {
	IngredientTypeID  int64            `json:"ingredient_type_id"`
	Ingredient        string           `json:"ingredient"`
	Category          string           `json:"category"`
	Unit              string           `json:"unit"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	AvgDailyUsage     decimal.Decimal  `json:"avg_daily_usage"`
	DaysUntilStockout *decimal.Decimal `json:"days_until_stockout,omitempty"`
	Urgency           Urgency          `json:"urgency"`
	NeedsReorder      bool             `json:"needs_reorder"`
	SuggestedQty      decimal.Decimal  `json:"suggested_qty"`
}

// ForecastSummary aggregates a forecast run
type ForecastSummary struct {
	Stockout    int `json:"stockout"`
	Critical    int `json:"critical"`
	Warning     int `json:"warning"`
	OK          int `json:"ok"`
	NoUsageData int `json:"no_usage_data"`
	HealthScore int `json:"health_score"`
}

// StockoutForecast is the full output of PredictStockouts
type StockoutForecast struct {
	Predictions []StockoutPrediction `json:"predictions"`
	Summary     ForecastSummary      `json:"summary"`
}

// VendorOffer is a simulated supplier quote for one ingredient. Offers
// are derived deterministically from the ingredient name so repeated
// calls stay stable without persisting vendor data.
type VendorOffer struct {
	Vendor       string          `json:"vendor"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Rating       decimal.Decimal `json:"rating"`
	MinOrderQty  decimal.Decimal `json:"min_order_qty"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// DepletionPoint is one day of the projected stock runway
type DepletionPoint struct {
	Day            int             `json:"day"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
}

// ReorderSuggestion wraps one prediction with vendor offers and a
// 7-day depletion projection.
type ReorderSuggestion struct {
	StockoutPrediction
	VendorOffers []VendorOffer    `json:"vendor_offers"`
	Projection   []DepletionPoint `json:"projection"`
}
