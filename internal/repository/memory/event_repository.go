package memory

import (
	"context"
	"time"

	"github.com/stocksense/backend-go/internal/domain"
)

func (s *Store) ListSince(ctx context.Context, orgID int64, since time.Time) ([]domain.ConsumptionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []domain.ConsumptionEvent
	for _, ev := range s.events {
		if ev.OrgID != orgID || ev.OccurredAt.Before(since) {
			continue
		}
		// Resolve the display name at read time; deleted dishes yield "".
		if d, ok := s.dishes[ev.DishID]; ok {
			ev.DishName = d.Name
		} else {
			ev.DishName = ""
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) Get(ctx context.Context, orgID int64) (*domain.OrgSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.settings[orgID]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *Store) Upsert(ctx context.Context, st *domain.OrgSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[st.OrgID] = *st
	return nil
}
