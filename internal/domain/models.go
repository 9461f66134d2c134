package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Org represents a restaurant organization
type Org struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrgSettings holds the per-organization forecasting knobs
type OrgSettings struct {
	OrgID              int64 `json:"org_id" db:"org_id"`
	LeadTimeDays       int   `json:"lead_time_days" db:"lead_time_days"`
	LowStockBufferDays int   `json:"low_stock_buffer_days" db:"low_stock_buffer_days"`
}

// IngredientType is the named template an ingredient is stocked and
// consumed as. It carries no quantity; physical stock lives in batches.
type IngredientType struct {
	ID        int64     `json:"id" db:"id"`
	OrgID     int64     `json:"org_id" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Batch is a physical lot of an ingredient. Name and category are copied
// from the ingredient type at creation so renaming the type never alters
// historical batches; lookup still goes through IngredientTypeID.
// At least one of Expiry and LotNumber is always set.
type Batch struct {
	ID               int64           `json:"id" db:"id"`
	OrgID            int64           `json:"org_id" db:"org_id"`
	IngredientTypeID int64           `json:"ingredient_type_id" db:"ingredient_type_id"`
	Name             string          `json:"name" db:"name"`
	Category         string          `json:"category" db:"category"`
	Expiry           *time.Time      `json:"expiry,omitempty" db:"expiry"`
	LotNumber        *string         `json:"lot_number,omitempty" db:"lot_number"`
	Quantity         decimal.Decimal `json:"quantity" db:"quantity"`
	Unit             string          `json:"unit" db:"unit"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Dish represents a menu item with a recipe
type Dish struct {
	ID        int64     `json:"id" db:"id"`
	OrgID     int64     `json:"org_id" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RecipeLine links a dish to one ingredient type with a per-serving
// quantity and a unit token. Quantity and unit are nullable in storage;
// a line missing either makes the recipe incomplete for consumption.
type RecipeLine struct {
	DishID           int64               `json:"dish_id" db:"dish_id"`
	IngredientTypeID int64               `json:"ingredient_type_id" db:"ingredient_type_id"`
	IngredientName   string              `json:"ingredient_name" db:"ingredient_name"`
	Category         string              `json:"category" db:"category"`
	Quantity         decimal.NullDecimal `json:"quantity" db:"quantity"`
	Unit             *string             `json:"unit,omitempty" db:"unit"`
}

// ConsumptionEvent is the immutable record of servings cooked. It stores
// the stable dish id; the display name is resolved at read time.
type ConsumptionEvent struct {
	ID             int64           `json:"id" db:"id"`
	OrgID          int64           `json:"org_id" db:"org_id"`
	DishID         int64           `json:"dish_id" db:"dish_id"`
	DishName       string          `json:"dish_name" db:"dish_name"`
	Servings       decimal.Decimal `json:"servings" db:"servings"`
	DeductionCount int             `json:"deduction_count" db:"deduction_count"`
	OccurredAt     time.Time       `json:"occurred_at" db:"occurred_at"`
}

// Deduction records quantity taken from one batch during a consumption
type Deduction struct {
	EventID        int64           `json:"event_id" db:"event_id"`
	BatchID        int64           `json:"batch_id" db:"batch_id"`
	IngredientName string          `json:"ingredient_name" db:"ingredient_name"`
	LotNumber      *string         `json:"lot_number,omitempty" db:"lot_number"`
	Expiry         *time.Time      `json:"expiry,omitempty" db:"expiry"`
	Quantity       decimal.Decimal `json:"quantity" db:"quantity"`
	Unit           string          `json:"unit" db:"unit"`
}

// ConsumptionResult is returned by a successful Consume call
type ConsumptionResult struct {
	EventID    int64           `json:"event_id"`
	DishName   string          `json:"dish_name"`
	Servings   decimal.Decimal `json:"servings"`
	Deductions []Deduction     `json:"deductions"`
}

// StockTotal aggregates current stock across the batches of one
// (ingredient type, unit) pair within an organization.
type StockTotal struct {
	IngredientTypeID int64           `json:"ingredient_type_id" db:"ingredient_type_id"`
	IngredientName   string          `json:"ingredient_name" db:"ingredient_name"`
	Category         string          `json:"category" db:"category"`
	Unit             string          `json:"unit" db:"unit"`
	Quantity         decimal.Decimal `json:"quantity" db:"quantity"`
}
