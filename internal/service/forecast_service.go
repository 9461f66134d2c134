package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/cache"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

// ForecastWindowDays is the lookback window for usage-rate derivation.
// Average daily usage divides by the full window, not by days with
// activity, which deliberately flattens bursty demand.
const ForecastWindowDays = 30

// reorderBufferDays targets a week of stock beyond the supplier lead
// time when sizing reorder suggestions.
const reorderBufferDays = 7

// ForecastService replays the consumption log against the current
// recipe catalog to derive per-ingredient usage rates and predict
// stockouts.
type ForecastService struct {
	catalog  repository.CatalogRepository
	ledger   repository.LedgerRepository
	events   repository.EventRepository
	settings repository.SettingsRepository
	cache    cache.ForecastCache

	defaultLeadTimeDays       int
	defaultLowStockBufferDays int
}

func NewForecastService(
	catalog repository.CatalogRepository,
	ledger repository.LedgerRepository,
	events repository.EventRepository,
	settings repository.SettingsRepository,
	cacheImpl cache.ForecastCache,
	defaultLeadTimeDays, defaultLowStockBufferDays int,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		catalog:                   catalog,
		ledger:                    ledger,
		events:                    events,
		settings:                  settings,
		cache:                     cacheImpl,
		defaultLeadTimeDays:       defaultLeadTimeDays,
		defaultLowStockBufferDays: defaultLowStockBufferDays,
	}
}

// ResolveSettings returns the org's stored lead time and low-stock
// buffer, falling back to configured defaults.
func (s *ForecastService) ResolveSettings(ctx context.Context, orgID int64) (leadTimeDays, bufferDays int, err error) {
	stored, err := s.settings.Get(ctx, orgID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load org settings: %w", err)
	}
	if stored == nil {
		return s.defaultLeadTimeDays, s.defaultLowStockBufferDays, nil
	}
	return stored.LeadTimeDays, stored.LowStockBufferDays, nil
}

// UpdateSettings stores new forecasting settings for the org and drops
// any cached forecasts computed with the old values.
func (s *ForecastService) UpdateSettings(ctx context.Context, settings *domain.OrgSettings) error {
	if settings.LeadTimeDays < 0 || settings.LowStockBufferDays < 0 {
		return domain.ErrInvalidQuantity
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return err
	}
	if err := s.cache.InvalidateOrg(ctx, settings.OrgID); err != nil {
		log.Warn().Err(err).Int64("org_id", settings.OrgID).Msg("forecast: cache invalidation failed")
	}
	return nil
}

// PredictStockouts derives average daily usage from the last 30 days of
// consumption events, joins it with current stock levels and classifies
// reorder urgency per (ingredient type, unit) pair. Events whose dish no
// longer exists contribute nothing; that tolerance is designed for
// historical data drift, not an error to surface.
func (s *ForecastService) PredictStockouts(ctx context.Context, orgID int64, leadTimeDays, bufferDays int) (*domain.StockoutForecast, error) {
	if cached, ok, err := s.cache.Get(ctx, orgID, leadTimeDays, bufferDays); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("org_id", orgID).Msg("forecast: cache get failed")
	}

	since := time.Now().AddDate(0, 0, -ForecastWindowDays)
	events, err := s.events.ListSince(ctx, orgID, since)
	if err != nil {
		return nil, err
	}

	recipes, err := s.catalog.RecipesByDish(ctx, orgID)
	if err != nil {
		return nil, err
	}

	usage := replayUsage(events, recipes)

	totals, err := s.ledger.StockTotals(ctx, orgID)
	if err != nil {
		return nil, err
	}

	forecast := buildForecast(usage, totals, leadTimeDays, bufferDays)

	if err := s.cache.Set(ctx, orgID, leadTimeDays, bufferDays, forecast); err != nil {
		log.Warn().Err(err).Int64("org_id", orgID).Msg("forecast: cache set failed")
	}

	return forecast, nil
}

type usageKey struct {
	typeID int64
	unit   string
}

type usageTotal struct {
	name     string
	category string
	consumed decimal.Decimal
}

// replayUsage accumulates consumed quantities per (ingredient type,
// unit) by joining each event against the dish's current recipe.
func replayUsage(events []domain.ConsumptionEvent, recipes map[int64][]domain.RecipeLine) map[usageKey]usageTotal {
	usage := make(map[usageKey]usageTotal)
	for _, ev := range events {
		lines, ok := recipes[ev.DishID]
		if !ok {
			// Dish deleted since the event was recorded; skip silently.
			continue
		}
		for _, line := range lines {
			if !line.Quantity.Valid || line.Unit == nil || *line.Unit == "" {
				continue
			}
			key := usageKey{typeID: line.IngredientTypeID, unit: *line.Unit}
			total := usage[key]
			total.name = line.IngredientName
			total.category = line.Category
			total.consumed = total.consumed.Add(ev.Servings.Mul(line.Quantity.Decimal))
			usage[key] = total
		}
	}
	return usage
}

func buildForecast(usage map[usageKey]usageTotal, totals []domain.StockTotal, leadTimeDays, bufferDays int) *domain.StockoutForecast {
	window := decimal.NewFromInt(ForecastWindowDays)
	leadTime := decimal.NewFromInt(int64(leadTimeDays))
	warnLimit := decimal.NewFromInt(int64(leadTimeDays + bufferDays))
	reorderTarget := decimal.NewFromInt(int64(leadTimeDays + reorderBufferDays))

	// Union of stocked and consumed keys: an ingredient with usage but no
	// remaining stock is already a stockout, not an absent row.
	stock := make(map[usageKey]domain.StockTotal, len(totals))
	for _, t := range totals {
		stock[usageKey{typeID: t.IngredientTypeID, unit: t.Unit}] = t
	}
	keys := make(map[usageKey]struct{}, len(stock)+len(usage))
	for k := range stock {
		keys[k] = struct{}{}
	}
	for k := range usage {
		keys[k] = struct{}{}
	}

	predictions := make([]domain.StockoutPrediction, 0, len(keys))
	summary := domain.ForecastSummary{}

	for key := range keys {
		current := decimal.Zero
		name, category := usage[key].name, usage[key].category
		if t, ok := stock[key]; ok {
			current = t.Quantity
			name, category = t.IngredientName, t.Category
		}
		avg := usage[key].consumed.Div(window)

		p := domain.StockoutPrediction{
			IngredientTypeID: key.typeID,
			Ingredient:       name,
			Category:         category,
			Unit:             key.unit,
			CurrentStock:     current.Round(2),
			AvgDailyUsage:    avg.Round(2),
			Urgency:          domain.UrgencyOK,
			SuggestedQty:     decimal.Zero,
		}

		if avg.IsPositive() {
			days := current.Div(avg).Round(1)
			p.DaysUntilStockout = &days

			switch {
			case !days.IsPositive():
				p.Urgency = domain.UrgencyStockout
			case days.LessThanOrEqual(leadTime):
				p.Urgency = domain.UrgencyCritical
			case days.LessThanOrEqual(warnLimit):
				p.Urgency = domain.UrgencyWarning
			default:
				p.Urgency = domain.UrgencyOK
			}

			if p.Urgency != domain.UrgencyOK {
				p.NeedsReorder = true
				suggested := avg.Mul(reorderTarget).Sub(current)
				if suggested.IsNegative() {
					suggested = decimal.Zero
				}
				p.SuggestedQty = suggested.Round(2)
			}
		} else {
			// No usage data in the window: healthy/unknown, never urgent.
			summary.NoUsageData++
		}

		switch p.Urgency {
		case domain.UrgencyStockout:
			summary.Stockout++
		case domain.UrgencyCritical:
			summary.Critical++
		case domain.UrgencyWarning:
			summary.Warning++
		case domain.UrgencyOK:
			if p.DaysUntilStockout != nil {
				summary.OK++
			}
		}

		predictions = append(predictions, p)
	}

	sort.Slice(predictions, func(i, j int) bool {
		a, b := predictions[i], predictions[j]
		if a.Urgency != b.Urgency {
			return a.Urgency < b.Urgency
		}
		// Unknowns sort last within their bucket.
		switch {
		case a.DaysUntilStockout == nil && b.DaysUntilStockout == nil:
			return a.Ingredient < b.Ingredient
		case a.DaysUntilStockout == nil:
			return false
		case b.DaysUntilStockout == nil:
			return true
		case !a.DaysUntilStockout.Equal(*b.DaysUntilStockout):
			return a.DaysUntilStockout.LessThan(*b.DaysUntilStockout)
		default:
			return a.Ingredient < b.Ingredient
		}
	})

	summary.HealthScore = healthScore(summary, len(predictions))

	return &domain.StockoutForecast{Predictions: predictions, Summary: summary}
}

// healthScore is the share of tracked items that are ok or have no
// usage data, as a 0-100 integer. An empty ledger scores 100.
func healthScore(summary domain.ForecastSummary, tracked int) int {
	if tracked == 0 {
		return 100
	}
	healthy := summary.OK + summary.NoUsageData
	return int(decimal.NewFromInt(int64(healthy * 100)).
		Div(decimal.NewFromInt(int64(tracked))).
		Round(0).IntPart())
}
