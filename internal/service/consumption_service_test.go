package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository/memory"
)

const testOrg int64 = 1

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func daysFromNow(n int) *time.Time {
	t := time.Now().AddDate(0, 0, n)
	return &t
}

func line(typeID int64, qty, unit string) domain.RecipeLine {
	return domain.RecipeLine{
		IngredientTypeID: typeID,
		Quantity:         decimal.NewNullDecimal(d(qty)),
		Unit:             strPtr(unit),
	}
}

type fixture struct {
	store *memory.Store
	svc   *ConsumptionService
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{store: store, svc: NewConsumptionService(store, store, nil)}
}

func (f *fixture) addType(t *testing.T, name, category string) int64 {
	t.Helper()
	it := &domain.IngredientType{OrgID: testOrg, Name: name, Category: category}
	require.NoError(t, f.store.CreateIngredientType(context.Background(), it))
	return it.ID
}

func (f *fixture) addDish(t *testing.T, name string, lines ...domain.RecipeLine) int64 {
	t.Helper()
	dish := &domain.Dish{OrgID: testOrg, Name: name}
	require.NoError(t, f.store.CreateDish(context.Background(), dish))
	require.NoError(t, f.store.SetRecipe(context.Background(), testOrg, dish.ID, lines))
	return dish.ID
}

func (f *fixture) addBatch(t *testing.T, typeID int64, qty, unit string, expiry *time.Time) int64 {
	t.Helper()
	b := &domain.Batch{
		OrgID:            testOrg,
		IngredientTypeID: typeID,
		Quantity:         d(qty),
		Unit:             unit,
		Expiry:           expiry,
	}
	if expiry == nil {
		b.LotNumber = strPtr(fmt.Sprintf("LOT-%d", typeID))
	}
	require.NoError(t, f.store.CreateBatch(context.Background(), b))
	return b.ID
}

func (f *fixture) batchQty(t *testing.T, batchID int64) decimal.Decimal {
	t.Helper()
	batches, err := f.store.ListBatches(context.Background(), testOrg)
	require.NoError(t, err)
	for _, b := range batches {
		if b.ID == batchID {
			return b.Quantity
		}
	}
	t.Fatalf("batch %d not found", batchID)
	return decimal.Zero
}

func TestConsume_DeductsInExpiryOrder(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "All-Purpose Flour", "Dry Goods")
	dish := f.addDish(t, "Garlic Bread", line(flour, "0.5", "lbs"))

	early := f.addBatch(t, flour, "5", "lbs", daysFromNow(2))
	late := f.addBatch(t, flour, "10", "lbs", daysFromNow(10))

	result, err := f.svc.Consume(context.Background(), testOrg, dish, d("12"))
	require.NoError(t, err)

	// 6 lbs required: the earlier batch is drained first, the later one
	// covers the remainder.
	require.Len(t, result.Deductions, 2)
	assert.Equal(t, early, result.Deductions[0].BatchID)
	assert.Equal(t, "5", result.Deductions[0].Quantity.String())
	assert.Equal(t, late, result.Deductions[1].BatchID)
	assert.Equal(t, "1", result.Deductions[1].Quantity.String())

	assert.Equal(t, "0", f.batchQty(t, early).String())
	assert.Equal(t, "9", f.batchQty(t, late).String())
}

func TestConsume_NoExpiryBatchesDrawnLast(t *testing.T) {
	f := newFixture()
	rice := f.addType(t, "White Rice", "Dry Goods")
	dish := f.addDish(t, "Rice Bowl", line(rice, "1", "lbs"))

	lotOnly := f.addBatch(t, rice, "5", "lbs", nil)
	dated := f.addBatch(t, rice, "5", "lbs", daysFromNow(5))

	result, err := f.svc.Consume(context.Background(), testOrg, dish, d("6"))
	require.NoError(t, err)

	require.Len(t, result.Deductions, 2)
	assert.Equal(t, dated, result.Deductions[0].BatchID)
	assert.Equal(t, "5", result.Deductions[0].Quantity.String())
	assert.Equal(t, lotOnly, result.Deductions[1].BatchID)
	assert.Equal(t, "1", result.Deductions[1].Quantity.String())
}

func TestConsume_AllOrNothing(t *testing.T) {
	f := newFixture()
	beef := f.addType(t, "Ground Beef", "Protein")
	cheese := f.addType(t, "Cheddar Cheese", "Dairy")
	dish := f.addDish(t, "Cheeseburger",
		line(beef, "0.35", "lbs"),
		line(cheese, "0.1", "lbs"),
	)

	beefBatch := f.addBatch(t, beef, "20", "lbs", daysFromNow(5))
	cheeseBatch := f.addBatch(t, cheese, "0.5", "lbs", daysFromNow(7))

	// 10 servings needs 1 lb of cheese but only 0.5 is stocked. The beef
	// deduction planned before the shortage must be rolled back.
	_, err := f.svc.Consume(context.Background(), testOrg, dish, d("10"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Cheddar Cheese", insufficient.Ingredient)
	assert.Equal(t, "1", insufficient.Required.String())
	assert.Equal(t, "0.5", insufficient.Available.String())
	assert.Equal(t, "lbs", insufficient.Unit)

	assert.Equal(t, "20", f.batchQty(t, beefBatch).String())
	assert.Equal(t, "0.5", f.batchQty(t, cheeseBatch).String())
	assert.Empty(t, f.store.Deductions())

	events, err := f.store.ListSince(context.Background(), testOrg, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestConsume_UnitMismatchDoesNotCount(t *testing.T) {
	f := newFixture()
	oil := f.addType(t, "Olive Oil", "Dry Goods")
	dish := f.addDish(t, "Dressing", line(oil, "1", "lbs"))

	// Stocked in ounces; the recipe wants pounds. No conversion is
	// attempted, so available stock is zero.
	f.addBatch(t, oil, "64", "oz", daysFromNow(30))

	_, err := f.svc.Consume(context.Background(), testOrg, dish, d("1"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "0", insufficient.Available.String())
	assert.Equal(t, "lbs", insufficient.Unit)
}

func TestConsume_InvalidServings(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	dish := f.addDish(t, "Bread", line(flour, "1", "lbs"))
	f.addBatch(t, flour, "10", "lbs", daysFromNow(30))

	_, err := f.svc.Consume(context.Background(), testOrg, dish, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Consume(context.Background(), testOrg, dish, d("-2"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestConsume_DishNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Consume(context.Background(), testOrg, 999, d("1"))
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
}

func TestConsume_IncompleteRecipe(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	f.addBatch(t, flour, "10", "lbs", daysFromNow(30))

	empty := f.addDish(t, "Mystery Dish")
	_, err := f.svc.Consume(context.Background(), testOrg, empty, d("1"))
	var incomplete *domain.IncompleteRecipeError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "Mystery Dish", incomplete.Dish)

	noUnit := f.addDish(t, "Unitless Dish", domain.RecipeLine{
		IngredientTypeID: flour,
		Quantity:         decimal.NewNullDecimal(d("1")),
	})
	_, err = f.svc.Consume(context.Background(), testOrg, noUnit, d("1"))
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "Unitless Dish", incomplete.Dish)
}

func TestConsume_NoStockAvailable(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	dish := f.addDish(t, "Bread", line(flour, "1", "lbs"))

	_, err := f.svc.Consume(context.Background(), testOrg, dish, d("1"))
	assert.ErrorIs(t, err, domain.ErrNoStockAvailable)
}

func TestConsume_RecordsEventAndDeductions(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	dish := f.addDish(t, "Bread", line(flour, "0.5", "lbs"))
	f.addBatch(t, flour, "10", "lbs", daysFromNow(30))

	result, err := f.svc.Consume(context.Background(), testOrg, dish, d("4"))
	require.NoError(t, err)
	assert.Equal(t, "Bread", result.DishName)

	events, err := f.store.ListSince(context.Background(), testOrg, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, dish, events[0].DishID)
	assert.Equal(t, "Bread", events[0].DishName)
	assert.Equal(t, "4", events[0].Servings.String())
	assert.Equal(t, 1, events[0].DeductionCount)

	deductions := f.store.Deductions()
	require.Len(t, deductions, 1)
	assert.Equal(t, events[0].ID, deductions[0].EventID)
	assert.Equal(t, "2", deductions[0].Quantity.String())
}

func TestConsume_ZeroQuantityLineSkipped(t *testing.T) {
	f := newFixture()
	flour := f.addType(t, "Flour", "Dry Goods")
	salt := f.addType(t, "Salt", "Dry Goods")
	dish := f.addDish(t, "Bread",
		line(flour, "0.5", "lbs"),
		line(salt, "0", "oz"),
	)
	f.addBatch(t, flour, "10", "lbs", daysFromNow(30))
	// No salt stocked at all; a zero-quantity line must not require any.

	result, err := f.svc.Consume(context.Background(), testOrg, dish, d("2"))
	require.NoError(t, err)
	require.Len(t, result.Deductions, 1)
	assert.Equal(t, "Flour", result.Deductions[0].IngredientName)
}

func TestConsume_EqualExpiryBreaksTiesByID(t *testing.T) {
	f := newFixture()
	tomato := f.addType(t, "Tomato", "Produce")
	dish := f.addDish(t, "Salsa", line(tomato, "1", "lbs"))

	expiry := daysFromNow(4)
	first := f.addBatch(t, tomato, "2", "lbs", expiry)
	second := f.addBatch(t, tomato, "2", "lbs", expiry)

	result, err := f.svc.Consume(context.Background(), testOrg, dish, d("3"))
	require.NoError(t, err)

	require.Len(t, result.Deductions, 2)
	assert.Equal(t, first, result.Deductions[0].BatchID)
	assert.Equal(t, "2", result.Deductions[0].Quantity.String())
	assert.Equal(t, second, result.Deductions[1].BatchID)
	assert.Equal(t, "1", result.Deductions[1].Quantity.String())
}
