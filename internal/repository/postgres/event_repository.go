package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListSince(ctx context.Context, orgID int64, since time.Time) ([]domain.ConsumptionEvent, error) {
	// LEFT JOIN: events keep their stable dish id even after the dish is
	// deleted; the name simply stops resolving.
	query := `
		SELECT
			e.id,
			e.org_id,
			e.dish_id,
			COALESCE(d.name, '') AS dish_name,
			e.servings,
			e.deduction_count,
			e.occurred_at
		FROM consumption_events e
		LEFT JOIN dishes d ON d.id = e.dish_id
		WHERE e.org_id = $1 AND e.occurred_at >= $2
		ORDER BY e.occurred_at
	`
	var events []domain.ConsumptionEvent
	if err := r.db.SelectContext(ctx, &events, query, orgID, since); err != nil {
		return nil, fmt.Errorf("failed to list consumption events: %w", err)
	}
	return events, nil
}
