package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
)

// LedgerRepository stores ingredient batches and their quantities.
type LedgerRepository interface {
	// CreateBatch validates the expiry/lot identity invariant before
	// inserting.
	CreateBatch(ctx context.Context, b *domain.Batch) error
	ListBatches(ctx context.Context, orgID int64) ([]domain.Batch, error)
	// StockTotals sums batch quantities per (ingredient type, unit) pair.
	StockTotals(ctx context.Context, orgID int64) ([]domain.StockTotal, error)

	// WithOrgLock runs fn inside a transaction serialized per
	// organization. Concurrent consumption calls for the same org never
	// interleave their read-decrement-write sequences; any error from fn
	// rolls the whole transaction back.
	WithOrgLock(ctx context.Context, orgID int64, fn func(tx LedgerTx) error) error
}

// LedgerTx is the transactional view the consumption engine works
// against. All reads see, and all writes join, one atomic unit.
type LedgerTx interface {
	// HasStock reports whether the org has any batches at all.
	HasStock() (bool, error)
	// BatchesForType returns the org's batches of one ingredient type in
	// consumption order: batches with no expiry last, then ascending
	// expiry, then ascending id. Rows are locked for the transaction.
	BatchesForType(typeID int64) ([]domain.Batch, error)
	DecrementBatch(batchID int64, qty decimal.Decimal) error
	AppendEvent(ev *domain.ConsumptionEvent) (int64, error)
	RecordDeductions(eventID int64, deductions []domain.Deduction) error
}
