package service

import (
	"context"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

// CatalogService fronts catalog and ledger management for the HTTP
// layer. It is thin glue; the consumption and forecast engines are the
// interesting consumers of these repositories.
type CatalogService struct {
	catalog repository.CatalogRepository
	ledger  repository.LedgerRepository
}

func NewCatalogService(catalog repository.CatalogRepository, ledger repository.LedgerRepository) *CatalogService {
	return &CatalogService{catalog: catalog, ledger: ledger}
}

func (s *CatalogService) CreateIngredientType(ctx context.Context, t *domain.IngredientType) error {
	return s.catalog.CreateIngredientType(ctx, t)
}

func (s *CatalogService) ListIngredientTypes(ctx context.Context, orgID int64) ([]domain.IngredientType, error) {
	return s.catalog.ListIngredientTypes(ctx, orgID)
}

func (s *CatalogService) DeleteIngredientType(ctx context.Context, orgID, typeID int64) error {
	return s.catalog.DeleteIngredientType(ctx, orgID, typeID)
}

func (s *CatalogService) CreateDish(ctx context.Context, d *domain.Dish) error {
	return s.catalog.CreateDish(ctx, d)
}

func (s *CatalogService) ListDishes(ctx context.Context, orgID int64) ([]domain.Dish, error) {
	return s.catalog.ListDishes(ctx, orgID)
}

func (s *CatalogService) DeleteDish(ctx context.Context, orgID, dishID int64) error {
	return s.catalog.DeleteDish(ctx, orgID, dishID)
}

func (s *CatalogService) SetRecipe(ctx context.Context, orgID, dishID int64, lines []domain.RecipeLine) error {
	return s.catalog.SetRecipe(ctx, orgID, dishID, lines)
}

func (s *CatalogService) GetRecipe(ctx context.Context, orgID, dishID int64) ([]domain.RecipeLine, error) {
	return s.catalog.GetRecipe(ctx, orgID, dishID)
}

func (s *CatalogService) CreateBatch(ctx context.Context, b *domain.Batch) error {
	return s.ledger.CreateBatch(ctx, b)
}

func (s *CatalogService) ListBatches(ctx context.Context, orgID int64) ([]domain.Batch, error) {
	return s.ledger.ListBatches(ctx, orgID)
}

func (s *CatalogService) StockTotals(ctx context.Context, orgID int64) ([]domain.StockTotal, error) {
	return s.ledger.StockTotals(ctx, orgID)
}
