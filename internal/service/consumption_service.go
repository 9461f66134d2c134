package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/cache"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

// ConsumptionService deducts batch stock when dishes are cooked. The
// whole deduction runs as one atomic unit: every precondition or
// shortage failure leaves all batches unchanged.
type ConsumptionService struct {
	catalog repository.CatalogRepository
	ledger  repository.LedgerRepository
	cache   cache.ForecastCache
}

func NewConsumptionService(catalog repository.CatalogRepository, ledger repository.LedgerRepository, cacheImpl cache.ForecastCache) *ConsumptionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ConsumptionService{catalog: catalog, ledger: ledger, cache: cacheImpl}
}

// Consume cooks servings of a dish: it computes the required quantity
// per recipe line, draws from batches in expiry order (no-expiry batches
// last), decrements them and appends one consumption event. Batches are
// matched per ingredient type and only counted when their unit equals
// the recipe's unit exactly; no conversion is ever attempted.
func (s *ConsumptionService) Consume(ctx context.Context, orgID, dishID int64, servings decimal.Decimal) (*domain.ConsumptionResult, error) {
	if !servings.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	dish, err := s.catalog.GetDish(ctx, orgID, dishID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.catalog.GetRecipe(ctx, orgID, dishID)
	if err != nil {
		return nil, err
	}
	if len(recipe) == 0 {
		return nil, &domain.IncompleteRecipeError{Dish: dish.Name, Reason: "dish has no recipe"}
	}
	for _, line := range recipe {
		if !line.Quantity.Valid || line.Unit == nil || *line.Unit == "" {
			return nil, &domain.IncompleteRecipeError{
				Dish:   dish.Name,
				Reason: "recipe line for " + line.IngredientName + " is missing quantity or unit",
			}
		}
		if line.Quantity.Decimal.IsNegative() {
			return nil, &domain.IncompleteRecipeError{
				Dish:   dish.Name,
				Reason: "recipe line for " + line.IngredientName + " has a negative quantity",
			}
		}
	}

	var result *domain.ConsumptionResult
	err = s.ledger.WithOrgLock(ctx, orgID, func(tx repository.LedgerTx) error {
		hasStock, err := tx.HasStock()
		if err != nil {
			return err
		}
		if !hasStock {
			return domain.ErrNoStockAvailable
		}

		var deductions []domain.Deduction
		for _, line := range recipe {
			required := line.Quantity.Decimal.Mul(servings)
			if required.IsZero() {
				continue
			}
			unit := *line.Unit

			batches, err := tx.BatchesForType(line.IngredientTypeID)
			if err != nil {
				return err
			}

			available := decimal.Zero
			for _, b := range batches {
				if b.Unit == unit {
					available = available.Add(b.Quantity)
				}
			}
			if available.LessThan(required) {
				return &domain.InsufficientStockError{
					Ingredient: line.IngredientName,
					Required:   required,
					Available:  available,
					Unit:       unit,
				}
			}

			remaining := required
			for _, b := range batches {
				if b.Unit != unit || !b.Quantity.IsPositive() {
					continue
				}
				take := decimal.Min(b.Quantity, remaining)
				if err := tx.DecrementBatch(b.ID, take); err != nil {
					return err
				}
				deductions = append(deductions, domain.Deduction{
					BatchID:        b.ID,
					IngredientName: b.Name,
					LotNumber:      b.LotNumber,
					Expiry:         b.Expiry,
					Quantity:       take,
					Unit:           unit,
				})
				remaining = remaining.Sub(take)
				if remaining.IsZero() {
					break
				}
			}
		}

		ev := &domain.ConsumptionEvent{
			OrgID:          orgID,
			DishID:         dish.ID,
			Servings:       servings,
			DeductionCount: len(deductions),
		}
		eventID, err := tx.AppendEvent(ev)
		if err != nil {
			return err
		}
		if err := tx.RecordDeductions(eventID, deductions); err != nil {
			return err
		}

		result = &domain.ConsumptionResult{
			EventID:    eventID,
			DishName:   dish.Name,
			Servings:   servings,
			Deductions: deductions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateOrg(ctx, orgID); err != nil {
		log.Warn().Err(err).Int64("org_id", orgID).Msg("consumption: forecast cache invalidation failed")
	}

	log.Info().
		Int64("org_id", orgID).
		Str("dish", dish.Name).
		Str("servings", servings.String()).
		Int("deductions", len(result.Deductions)).
		Msg("consumption recorded")

	return result, nil
}
