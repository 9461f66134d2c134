package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateIngredientType(ctx context.Context, t *domain.IngredientType) error {
	query := `
		INSERT INTO ingredient_types (org_id, name, category, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, t.OrgID, t.Name, t.Category).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to create ingredient type: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetIngredientType(ctx context.Context, orgID, typeID int64) (*domain.IngredientType, error) {
	query := `
		SELECT id, org_id, name, category, created_at
		FROM ingredient_types
		WHERE org_id = $1 AND id = $2
	`
	var t domain.IngredientType
	if err := r.db.GetContext(ctx, &t, query, orgID, typeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ingredient type %d not found", typeID)
		}
		return nil, fmt.Errorf("failed to get ingredient type: %w", err)
	}
	return &t, nil
}

func (r *catalogRepository) ListIngredientTypes(ctx context.Context, orgID int64) ([]domain.IngredientType, error) {
	query := `
		SELECT id, org_id, name, category, created_at
		FROM ingredient_types
		WHERE org_id = $1
		ORDER BY category, name
	`
	var types []domain.IngredientType
	if err := r.db.SelectContext(ctx, &types, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list ingredient types: %w", err)
	}
	return types, nil
}

func (r *catalogRepository) DeleteIngredientType(ctx context.Context, orgID, typeID int64) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var inUse bool
		query := `
			SELECT EXISTS (SELECT 1 FROM batches WHERE ingredient_type_id = $1)
			    OR EXISTS (SELECT 1 FROM recipe_lines WHERE ingredient_type_id = $1)
		`
		if err := tx.QueryRowxContext(ctx, query, typeID).Scan(&inUse); err != nil {
			return fmt.Errorf("failed to check ingredient type references: %w", err)
		}
		if inUse {
			return domain.ErrIngredientTypeInUse
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM ingredient_types WHERE org_id = $1 AND id = $2`, orgID, typeID)
		if err != nil {
			return fmt.Errorf("failed to delete ingredient type: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("ingredient type %d not found", typeID)
		}
		return nil
	})
}

func (r *catalogRepository) CreateDish(ctx context.Context, d *domain.Dish) error {
	query := `
		INSERT INTO dishes (org_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, d.OrgID, d.Name).
		Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("failed to create dish: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetDish(ctx context.Context, orgID, dishID int64) (*domain.Dish, error) {
	query := `
		SELECT id, org_id, name, created_at
		FROM dishes
		WHERE org_id = $1 AND id = $2
	`
	var d domain.Dish
	if err := r.db.GetContext(ctx, &d, query, orgID, dishID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDishNotFound
		}
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return &d, nil
}

func (r *catalogRepository) ListDishes(ctx context.Context, orgID int64) ([]domain.Dish, error) {
	query := `
		SELECT id, org_id, name, created_at
		FROM dishes
		WHERE org_id = $1
		ORDER BY name
	`
	var dishes []domain.Dish
	if err := r.db.SelectContext(ctx, &dishes, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	return dishes, nil
}

func (r *catalogRepository) DeleteDish(ctx context.Context, orgID, dishID int64) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_lines WHERE dish_id = $1`, dishID); err != nil {
			return fmt.Errorf("failed to delete recipe lines: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM dishes WHERE org_id = $1 AND id = $2`, orgID, dishID)
		if err != nil {
			return fmt.Errorf("failed to delete dish: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrDishNotFound
		}
		return nil
	})
}

// SetRecipe replaces the dish's recipe wholesale inside one transaction.
func (r *catalogRepository) SetRecipe(ctx context.Context, orgID, dishID int64, lines []domain.RecipeLine) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.QueryRowxContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM dishes WHERE org_id = $1 AND id = $2)`,
			orgID, dishID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check dish: %w", err)
		}
		if !exists {
			return domain.ErrDishNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_lines WHERE dish_id = $1`, dishID); err != nil {
			return fmt.Errorf("failed to clear recipe: %w", err)
		}

		query := `
			INSERT INTO recipe_lines (dish_id, ingredient_type_id, quantity, unit)
			VALUES ($1, $2, $3, $4)
		`
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, line := range lines {
			if _, err := stmt.ExecContext(ctx, dishID, line.IngredientTypeID, line.Quantity, line.Unit); err != nil {
				return fmt.Errorf("failed to insert recipe line: %w", err)
			}
		}
		return nil
	})
}

func (r *catalogRepository) GetRecipe(ctx context.Context, orgID, dishID int64) ([]domain.RecipeLine, error) {
	query := `
		SELECT
			rl.dish_id,
			rl.ingredient_type_id,
			it.name AS ingredient_name,
			it.category,
			rl.quantity,
			rl.unit
		FROM recipe_lines rl
		JOIN dishes d ON d.id = rl.dish_id
		JOIN ingredient_types it ON it.id = rl.ingredient_type_id
		WHERE d.org_id = $1 AND rl.dish_id = $2
		ORDER BY it.name
	`
	var lines []domain.RecipeLine
	if err := r.db.SelectContext(ctx, &lines, query, orgID, dishID); err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return lines, nil
}

func (r *catalogRepository) RecipesByDish(ctx context.Context, orgID int64) (map[int64][]domain.RecipeLine, error) {
	query := `
		SELECT
			rl.dish_id,
			rl.ingredient_type_id,
			it.name AS ingredient_name,
			it.category,
			rl.quantity,
			rl.unit
		FROM recipe_lines rl
		JOIN dishes d ON d.id = rl.dish_id
		JOIN ingredient_types it ON it.id = rl.ingredient_type_id
		WHERE d.org_id = $1
	`
	var lines []domain.RecipeLine
	if err := r.db.SelectContext(ctx, &lines, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	recipes := make(map[int64][]domain.RecipeLine)
	for _, line := range lines {
		recipes[line.DishID] = append(recipes[line.DishID], line)
	}
	return recipes, nil
}
