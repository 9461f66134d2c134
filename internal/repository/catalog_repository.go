package repository

import (
	"context"

	"github.com/stocksense/backend-go/internal/domain"
)

// CatalogRepository stores ingredient types, dishes and recipe links.
type CatalogRepository interface {
	CreateIngredientType(ctx context.Context, t *domain.IngredientType) error
	GetIngredientType(ctx context.Context, orgID, typeID int64) (*domain.IngredientType, error)
	ListIngredientTypes(ctx context.Context, orgID int64) ([]domain.IngredientType, error)
	// DeleteIngredientType fails with domain.ErrIngredientTypeInUse while
	// batches or recipe lines still reference the type.
	DeleteIngredientType(ctx context.Context, orgID, typeID int64) error

	CreateDish(ctx context.Context, d *domain.Dish) error
	GetDish(ctx context.Context, orgID, dishID int64) (*domain.Dish, error)
	ListDishes(ctx context.Context, orgID int64) ([]domain.Dish, error)
	DeleteDish(ctx context.Context, orgID, dishID int64) error

	// SetRecipe replaces the full recipe of a dish (replace-all semantics,
	// not an incremental patch).
	SetRecipe(ctx context.Context, orgID, dishID int64, lines []domain.RecipeLine) error
	GetRecipe(ctx context.Context, orgID, dishID int64) ([]domain.RecipeLine, error)
	// RecipesByDish returns the current recipe of every dish in the org,
	// keyed by dish id. Used by the forecast replay.
	RecipesByDish(ctx context.Context, orgID int64) (map[int64][]domain.RecipeLine, error)
}
