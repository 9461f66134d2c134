package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
)

// Demo dataset: 15 common restaurant ingredients across 5 categories
// and 10 dishes with realistic recipe proportions. Expiry windows are
// per-category shelf lives (dairy 7-14 days, dry goods 90-180, etc.).

type demoIngredient struct {
	name         string
	category     string
	shelfMinDays int
	shelfMaxDays int
	unit         string
}

type demoRecipeLine struct {
	ingredient string
	qty        float64
	unit       string
}

type demoDish struct {
	name       string
	recipe     []demoRecipeLine
	popularity int
}

var demoIngredients = []demoIngredient{
	{"Chicken Breast", "Protein", 5, 10, "lbs"},
	{"Ground Beef", "Protein", 4, 8, "lbs"},
	{"Salmon Fillet", "Protein", 3, 6, "lbs"},
	{"Tofu", "Protein", 10, 21, "lbs"},
	{"All-Purpose Flour", "Dry Goods", 90, 180, "lbs"},
	{"White Rice", "Dry Goods", 90, 180, "lbs"},
	{"Spaghetti", "Dry Goods", 90, 180, "lbs"},
	{"Olive Oil", "Dry Goods", 120, 365, "oz"},
	{"Tomato", "Produce", 5, 10, "lbs"},
	{"Lettuce", "Produce", 3, 7, "lbs"},
	{"Onion", "Produce", 14, 30, "lbs"},
	{"Garlic", "Produce", 14, 30, "lbs"},
	{"Cheddar Cheese", "Dairy", 7, 14, "lbs"},
	{"Heavy Cream", "Dairy", 5, 10, "oz"},
	{"Butter", "Dairy", 14, 30, "lbs"},
}

var demoDishes = []demoDish{
	{"Grilled Chicken Salad", []demoRecipeLine{
		{"Chicken Breast", 0.5, "lbs"},
		{"Lettuce", 0.3, "lbs"},
		{"Tomato", 0.2, "lbs"},
		{"Olive Oil", 1.0, "oz"},
	}, 8},
	{"Spaghetti Bolognese", []demoRecipeLine{
		{"Spaghetti", 0.4, "lbs"},
		{"Ground Beef", 0.5, "lbs"},
		{"Tomato", 0.3, "lbs"},
		{"Onion", 0.15, "lbs"},
		{"Garlic", 0.05, "lbs"},
	}, 10},
	{"Salmon Rice Bowl", []demoRecipeLine{
		{"Salmon Fillet", 0.4, "lbs"},
		{"White Rice", 0.3, "lbs"},
		{"Lettuce", 0.15, "lbs"},
		{"Onion", 0.1, "lbs"},
	}, 6},
	{"Cheeseburger", []demoRecipeLine{
		{"Ground Beef", 0.35, "lbs"},
		{"Cheddar Cheese", 0.1, "lbs"},
		{"Lettuce", 0.1, "lbs"},
		{"Tomato", 0.1, "lbs"},
		{"Onion", 0.05, "lbs"},
	}, 12},
	{"Chicken Alfredo", []demoRecipeLine{
		{"Chicken Breast", 0.4, "lbs"},
		{"Spaghetti", 0.35, "lbs"},
		{"Heavy Cream", 2.0, "oz"},
		{"Butter", 0.1, "lbs"},
		{"Garlic", 0.05, "lbs"},
	}, 7},
	{"Caesar Salad", []demoRecipeLine{
		{"Lettuce", 0.4, "lbs"},
		{"Cheddar Cheese", 0.08, "lbs"},
		{"Olive Oil", 1.0, "oz"},
		{"Garlic", 0.03, "lbs"},
	}, 5},
	{"Tofu Stir Fry", []demoRecipeLine{
		{"Tofu", 0.4, "lbs"},
		{"White Rice", 0.3, "lbs"},
		{"Onion", 0.15, "lbs"},
		{"Garlic", 0.05, "lbs"},
		{"Olive Oil", 1.0, "oz"},
	}, 4},
	{"Beef Tacos", []demoRecipeLine{
		{"Ground Beef", 0.3, "lbs"},
		{"Tomato", 0.15, "lbs"},
		{"Lettuce", 0.1, "lbs"},
		{"Onion", 0.1, "lbs"},
		{"Cheddar Cheese", 0.08, "lbs"},
	}, 9},
	{"Creamy Tomato Soup", []demoRecipeLine{
		{"Tomato", 0.5, "lbs"},
		{"Heavy Cream", 2.0, "oz"},
		{"Butter", 0.08, "lbs"},
		{"Onion", 0.1, "lbs"},
		{"Garlic", 0.03, "lbs"},
	}, 5},
	{"Garlic Bread", []demoRecipeLine{
		{"All-Purpose Flour", 0.3, "lbs"},
		{"Butter", 0.12, "lbs"},
		{"Garlic", 0.05, "lbs"},
		{"Olive Oil", 0.5, "oz"},
	}, 6},
}

func seedDemoData(ctx context.Context, tx *sql.Tx, orgID, prngSeed int64) error {
	rng := rand.New(rand.NewSource(prngSeed))

	if err := ensureOrg(ctx, tx, orgID); err != nil {
		return err
	}
	if err := clearOrgData(ctx, tx, orgID); err != nil {
		return err
	}

	typeIDs, err := seedIngredientTypes(ctx, tx, orgID)
	if err != nil {
		return err
	}
	log.Printf("  Created %d ingredient types", len(typeIDs))

	dishIDs, err := seedDishes(ctx, tx, orgID, typeIDs)
	if err != nil {
		return err
	}
	log.Printf("  Created %d dishes with recipes", len(dishIDs))

	batchCount, err := seedBatches(ctx, tx, orgID, typeIDs, rng)
	if err != nil {
		return err
	}
	log.Printf("  Created %d stock batches", batchCount)

	eventCount, err := seedConsumptionHistory(ctx, tx, orgID, dishIDs, rng)
	if err != nil {
		return err
	}
	log.Printf("  Created %d simulated consumption events (30 days)", eventCount)

	return nil
}

func ensureOrg(ctx context.Context, tx *sql.Tx, orgID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orgs (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, orgID, fmt.Sprintf("Demo Restaurant %d", orgID))
	if err != nil {
		return fmt.Errorf("failed to ensure org %d: %w", orgID, err)
	}
	return nil
}

// clearOrgData removes previously seeded data so the command is
// idempotent.
func clearOrgData(ctx context.Context, tx *sql.Tx, orgID int64) error {
	statements := []string{
		`DELETE FROM consumption_deductions WHERE event_id IN (SELECT id FROM consumption_events WHERE org_id = $1)`,
		`DELETE FROM consumption_events WHERE org_id = $1`,
		`DELETE FROM batches WHERE org_id = $1`,
		`DELETE FROM recipe_lines WHERE dish_id IN (SELECT id FROM dishes WHERE org_id = $1)`,
		`DELETE FROM dishes WHERE org_id = $1`,
		`DELETE FROM ingredient_types WHERE org_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, orgID); err != nil {
			return fmt.Errorf("failed to clear org data: %w", err)
		}
	}
	return nil
}

func seedIngredientTypes(ctx context.Context, tx *sql.Tx, orgID int64) (map[string]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ingredient_types (org_id, name, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare ingredient type statement: %w", err)
	}
	defer stmt.Close()

	typeIDs := make(map[string]int64, len(demoIngredients))
	for _, ing := range demoIngredients {
		var id int64
		if err := stmt.QueryRowContext(ctx, orgID, ing.name, ing.category).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to insert ingredient type %s: %w", ing.name, err)
		}
		typeIDs[ing.name] = id
	}
	return typeIDs, nil
}

func seedDishes(ctx context.Context, tx *sql.Tx, orgID int64, typeIDs map[string]int64) (map[string]int64, error) {
	lineStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipe_lines (dish_id, ingredient_type_id, quantity, unit)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare recipe line statement: %w", err)
	}
	defer lineStmt.Close()

	dishIDs := make(map[string]int64, len(demoDishes))
	for _, dish := range demoDishes {
		var dishID int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO dishes (org_id, name) VALUES ($1, $2) RETURNING id
		`, orgID, dish.name).Scan(&dishID); err != nil {
			return nil, fmt.Errorf("failed to insert dish %s: %w", dish.name, err)
		}
		dishIDs[dish.name] = dishID

		for _, line := range dish.recipe {
			typeID, ok := typeIDs[line.ingredient]
			if !ok {
				return nil, fmt.Errorf("recipe for %s references unknown ingredient %s", dish.name, line.ingredient)
			}
			if _, err := lineStmt.ExecContext(ctx, dishID, typeID, line.qty, line.unit); err != nil {
				return nil, fmt.Errorf("failed to insert recipe line for %s: %w", dish.name, err)
			}
		}
	}
	return dishIDs, nil
}

// seedBatches creates 2-4 batches per ingredient with staggered expiry
// dates. Offsets start at -3 days so some batches are already expired.
func seedBatches(ctx context.Context, tx *sql.Tx, orgID int64, typeIDs map[string]int64, rng *rand.Rand) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batches (org_id, ingredient_type_id, name, category, expiry, lot_number, quantity, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch statement: %w", err)
	}
	defer stmt.Close()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	count := 0
	for _, ing := range demoIngredients {
		numBatches := 2 + rng.Intn(3)
		for b := 0; b < numBatches; b++ {
			daysOffset := -3 + rng.Intn(ing.shelfMaxDays+4)
			expiry := today.AddDate(0, 0, daysOffset)
			lotNumber := fmt.Sprintf("B%04d", 1000+rng.Intn(9000))
			qty := math.Round((3+rng.Float64()*22)*10) / 10

			if _, err := stmt.ExecContext(ctx,
				orgID, typeIDs[ing.name], ing.name, ing.category,
				expiry, lotNumber, qty, ing.unit,
			); err != nil {
				return 0, fmt.Errorf("failed to insert batch for %s: %w", ing.name, err)
			}
			count++
		}
	}
	return count, nil
}

// seedConsumptionHistory writes 30 days of events. Daily servings track
// each dish's popularity weight with Gaussian noise, boosted 30% on
// weekends.
func seedConsumptionHistory(ctx context.Context, tx *sql.Tx, orgID int64, dishIDs map[string]int64, rng *rand.Rand) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO consumption_events (org_id, dish_id, servings, deduction_count, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare event statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	count := 0
	for dayOffset := 30; dayOffset > 0; dayOffset-- {
		simDate := now.AddDate(0, 0, -dayOffset)
		weekday := simDate.Weekday()
		isWeekend := weekday == time.Saturday || weekday == time.Sunday

		for _, dish := range demoDishes {
			base := float64(dish.popularity)
			if isWeekend {
				base *= 1.3
			}
			servings := int(base + rng.NormFloat64()*2)
			if servings <= 0 {
				continue
			}

			occurredAt := time.Date(
				simDate.Year(), simDate.Month(), simDate.Day(),
				11+rng.Intn(11), rng.Intn(60), 0, 0, time.UTC,
			)

			if _, err := stmt.ExecContext(ctx,
				orgID, dishIDs[dish.name], servings, len(dish.recipe), occurredAt,
			); err != nil {
				return 0, fmt.Errorf("failed to insert consumption event for %s: %w", dish.name, err)
			}
			count++
		}
	}
	return count, nil
}
