package repository

import (
	"context"
	"time"

	"github.com/stocksense/backend-go/internal/domain"
)

// EventRepository reads the append-only consumption log. Writes happen
// through LedgerTx so the event lands in the same transaction as the
// batch decrements it records.
type EventRepository interface {
	// ListSince returns the org's events with occurred_at >= since,
	// oldest first. Dish names are resolved at read time; events whose
	// dish was deleted carry an empty name.
	ListSince(ctx context.Context, orgID int64, since time.Time) ([]domain.ConsumptionEvent, error)
}
