package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrDishNotFound is returned when a dish id does not resolve
	// within the organization.
	ErrDishNotFound = errors.New("dish not found")

	// ErrInvalidQuantity is returned for non-positive serving counts
	// or quantity inputs.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrNoStockAvailable is returned when the organization has no
	// stock ledger at all.
	ErrNoStockAvailable = errors.New("no stock available for organization")

	// ErrIngredientTypeInUse blocks deleting an ingredient type that
	// batches or recipe lines still reference.
	ErrIngredientTypeInUse = errors.New("ingredient type is referenced by batches or recipes")

	// ErrBatchIdentity is returned when a batch is created without an
	// expiry date or a lot number.
	ErrBatchIdentity = errors.New("batch requires an expiry date or a lot number")
)

// IncompleteRecipeError indicates a dish recipe that cannot be consumed:
// it is empty, or a line is missing its quantity or unit.
type IncompleteRecipeError struct {
	Dish   string
	Reason string
}

func (e *IncompleteRecipeError) Error() string {
	return fmt.Sprintf("incomplete recipe for %q: %s", e.Dish, e.Reason)
}

// InsufficientStockError carries the shortage details for user display.
// Available counts only batches whose unit matches the recipe exactly.
type InsufficientStockError struct {
	Ingredient string
	Required   decimal.Decimal
	Available  decimal.Decimal
	Unit       string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: need %s %s, have %s %s",
		e.Ingredient, e.Required.StringFixed(2), e.Unit, e.Available.StringFixed(2), e.Unit)
}
