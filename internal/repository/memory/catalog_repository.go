package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stocksense/backend-go/internal/domain"
)

func (s *Store) CreateIngredientType(ctx context.Context, t *domain.IngredientType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.id()
	t.CreatedAt = time.Now()
	s.types[t.ID] = *t
	return nil
}

func (s *Store) GetIngredientType(ctx context.Context, orgID, typeID int64) (*domain.IngredientType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.types[typeID]
	if !ok || t.OrgID != orgID {
		return nil, fmt.Errorf("ingredient type %d not found", typeID)
	}
	return &t, nil
}

func (s *Store) ListIngredientTypes(ctx context.Context, orgID int64) ([]domain.IngredientType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var types []domain.IngredientType
	for _, t := range s.types {
		if t.OrgID == orgID {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Category != types[j].Category {
			return types[i].Category < types[j].Category
		}
		return types[i].Name < types[j].Name
	})
	return types, nil
}

func (s *Store) DeleteIngredientType(ctx context.Context, orgID, typeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.types[typeID]
	if !ok || t.OrgID != orgID {
		return fmt.Errorf("ingredient type %d not found", typeID)
	}
	for _, b := range s.batches {
		if b.IngredientTypeID == typeID {
			return domain.ErrIngredientTypeInUse
		}
	}
	for _, lines := range s.recipes {
		for _, line := range lines {
			if line.IngredientTypeID == typeID {
				return domain.ErrIngredientTypeInUse
			}
		}
	}
	delete(s.types, typeID)
	return nil
}

func (s *Store) CreateDish(ctx context.Context, d *domain.Dish) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.id()
	d.CreatedAt = time.Now()
	s.dishes[d.ID] = *d
	return nil
}

func (s *Store) GetDish(ctx context.Context, orgID, dishID int64) (*domain.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[dishID]
	if !ok || d.OrgID != orgID {
		return nil, domain.ErrDishNotFound
	}
	return &d, nil
}

func (s *Store) ListDishes(ctx context.Context, orgID int64) ([]domain.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dishes []domain.Dish
	for _, d := range s.dishes {
		if d.OrgID == orgID {
			dishes = append(dishes, d)
		}
	}
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].Name < dishes[j].Name })
	return dishes, nil
}

func (s *Store) DeleteDish(ctx context.Context, orgID, dishID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[dishID]
	if !ok || d.OrgID != orgID {
		return domain.ErrDishNotFound
	}
	delete(s.dishes, dishID)
	delete(s.recipes, dishID)
	return nil
}

func (s *Store) SetRecipe(ctx context.Context, orgID, dishID int64, lines []domain.RecipeLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[dishID]
	if !ok || d.OrgID != orgID {
		return domain.ErrDishNotFound
	}

	stored := make([]domain.RecipeLine, 0, len(lines))
	for _, line := range lines {
		line.DishID = dishID
		if t, ok := s.types[line.IngredientTypeID]; ok {
			line.IngredientName = t.Name
			line.Category = t.Category
		}
		stored = append(stored, line)
	}
	s.recipes[dishID] = stored
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, orgID, dishID int64) ([]domain.RecipeLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[dishID]
	if !ok || d.OrgID != orgID {
		return nil, domain.ErrDishNotFound
	}
	lines := make([]domain.RecipeLine, len(s.recipes[dishID]))
	copy(lines, s.recipes[dishID])
	return lines, nil
}

func (s *Store) RecipesByDish(ctx context.Context, orgID int64) (map[int64][]domain.RecipeLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := make(map[int64][]domain.RecipeLine)
	for dishID, lines := range s.recipes {
		d, ok := s.dishes[dishID]
		if !ok || d.OrgID != orgID {
			continue
		}
		cp := make([]domain.RecipeLine, len(lines))
		copy(cp, lines)
		recipes[dishID] = cp
	}
	return recipes, nil
}
