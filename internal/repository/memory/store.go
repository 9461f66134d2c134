// Package memory provides in-memory repository implementations backed by
// a single mutex-guarded store. They mirror the ordering and invariant
// behavior of the postgres implementations and back the service tests.
package memory

import (
	"sync"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type Store struct {
	mu     sync.Mutex
	nextID int64

	types    map[int64]domain.IngredientType
	dishes   map[int64]domain.Dish
	recipes  map[int64][]domain.RecipeLine
	batches  map[int64]domain.Batch
	events   []domain.ConsumptionEvent
	deducted []domain.Deduction
	settings map[int64]domain.OrgSettings
}

// Verify interface compliance
var (
	_ repository.CatalogRepository  = (*Store)(nil)
	_ repository.LedgerRepository   = (*Store)(nil)
	_ repository.EventRepository    = (*Store)(nil)
	_ repository.SettingsRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		types:    make(map[int64]domain.IngredientType),
		dishes:   make(map[int64]domain.Dish),
		recipes:  make(map[int64][]domain.RecipeLine),
		batches:  make(map[int64]domain.Batch),
		settings: make(map[int64]domain.OrgSettings),
	}
}

// id allocates the next identifier; callers hold s.mu.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Deductions returns every recorded deduction, for test inspection.
func (s *Store) Deductions() []domain.Deduction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Deduction, len(s.deducted))
	copy(out, s.deducted)
	return out
}
