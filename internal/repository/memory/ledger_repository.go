package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

func (s *Store) CreateBatch(ctx context.Context, b *domain.Batch) error {
	if b.Expiry == nil && b.LotNumber == nil {
		return domain.ErrBatchIdentity
	}
	if b.Quantity.IsNegative() {
		return domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.types[b.IngredientTypeID]
	if !ok || t.OrgID != b.OrgID {
		return fmt.Errorf("ingredient type %d not found", b.IngredientTypeID)
	}
	b.Name = t.Name
	b.Category = t.Category
	b.ID = s.id()
	b.CreatedAt = time.Now()
	s.batches[b.ID] = *b
	return nil
}

func (s *Store) ListBatches(ctx context.Context, orgID int64) ([]domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batches []domain.Batch
	for _, b := range s.batches {
		if b.OrgID == orgID {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].Name != batches[j].Name {
			return batches[i].Name < batches[j].Name
		}
		return expiryBefore(batches[i], batches[j])
	})
	return batches, nil
}

func (s *Store) StockTotals(ctx context.Context, orgID int64) ([]domain.StockTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]*domain.StockTotal)
	for _, b := range s.batches {
		if b.OrgID != orgID {
			continue
		}
		t, ok := s.types[b.IngredientTypeID]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%d|%s", b.IngredientTypeID, b.Unit)
		total, seen := totals[key]
		if !seen {
			total = &domain.StockTotal{
				IngredientTypeID: b.IngredientTypeID,
				IngredientName:   t.Name,
				Category:         t.Category,
				Unit:             b.Unit,
				Quantity:         decimal.Zero,
			}
			totals[key] = total
		}
		total.Quantity = total.Quantity.Add(b.Quantity)
	}

	out := make([]domain.StockTotal, 0, len(totals))
	for _, total := range totals {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngredientName != out[j].IngredientName {
			return out[i].IngredientName < out[j].IngredientName
		}
		return out[i].Unit < out[j].Unit
	})
	return out, nil
}

// WithOrgLock runs fn under the store mutex, buffering writes so an error
// from fn leaves the store untouched.
func (s *Store) WithOrgLock(ctx context.Context, orgID int64, fn func(tx repository.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &ledgerTx{store: s, orgID: orgID, pending: make(map[int64]decimal.Decimal)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

type ledgerTx struct {
	store   *Store
	orgID   int64
	pending map[int64]decimal.Decimal
	events  []domain.ConsumptionEvent
	deducts []domain.Deduction
}

func (t *ledgerTx) HasStock() (bool, error) {
	for _, b := range t.store.batches {
		if b.OrgID == t.orgID {
			return true, nil
		}
	}
	return false, nil
}

func (t *ledgerTx) BatchesForType(typeID int64) ([]domain.Batch, error) {
	var batches []domain.Batch
	for _, b := range t.store.batches {
		if b.OrgID != t.orgID || b.IngredientTypeID != typeID {
			continue
		}
		if taken, ok := t.pending[b.ID]; ok {
			b.Quantity = b.Quantity.Sub(taken)
		}
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool { return expiryBefore(batches[i], batches[j]) })
	return batches, nil
}

func (t *ledgerTx) DecrementBatch(batchID int64, qty decimal.Decimal) error {
	b, ok := t.store.batches[batchID]
	if !ok || b.OrgID != t.orgID {
		return fmt.Errorf("batch %d not found", batchID)
	}
	remaining := b.Quantity.Sub(t.pending[batchID])
	if remaining.LessThan(qty) {
		return fmt.Errorf("batch %d has less stock than planned deduction %s", batchID, qty.String())
	}
	t.pending[batchID] = t.pending[batchID].Add(qty)
	return nil
}

func (t *ledgerTx) AppendEvent(ev *domain.ConsumptionEvent) (int64, error) {
	ev.ID = t.store.id()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	t.events = append(t.events, *ev)
	return ev.ID, nil
}

func (t *ledgerTx) RecordDeductions(eventID int64, deductions []domain.Deduction) error {
	for _, d := range deductions {
		d.EventID = eventID
		t.deducts = append(t.deducts, d)
	}
	return nil
}

// apply commits buffered writes; the caller holds the store mutex.
func (t *ledgerTx) apply() {
	for batchID, taken := range t.pending {
		b := t.store.batches[batchID]
		b.Quantity = b.Quantity.Sub(taken)
		t.store.batches[batchID] = b
	}
	t.store.events = append(t.store.events, t.events...)
	t.store.deducted = append(t.store.deducted, t.deducts...)
}

// expiryBefore orders batches for consumption: no-expiry batches last,
// then ascending expiry, then ascending id.
func expiryBefore(a, b domain.Batch) bool {
	switch {
	case a.Expiry == nil && b.Expiry == nil:
		return a.ID < b.ID
	case a.Expiry == nil:
		return false
	case b.Expiry == nil:
		return true
	case a.Expiry.Equal(*b.Expiry):
		return a.ID < b.ID
	default:
		return a.Expiry.Before(*b.Expiry)
	}
}
