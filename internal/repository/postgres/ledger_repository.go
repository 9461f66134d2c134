package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateBatch(ctx context.Context, b *domain.Batch) error {
	if b.Expiry == nil && b.LotNumber == nil {
		return domain.ErrBatchIdentity
	}
	if b.Quantity.IsNegative() {
		return domain.ErrInvalidQuantity
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Freeze name/category from the ingredient type at creation time.
		var name, category string
		if err := tx.QueryRowxContext(ctx,
			`SELECT name, category FROM ingredient_types WHERE org_id = $1 AND id = $2`,
			b.OrgID, b.IngredientTypeID).Scan(&name, &category); err != nil {
			return fmt.Errorf("failed to resolve ingredient type %d: %w", b.IngredientTypeID, err)
		}
		b.Name = name
		b.Category = category

		query := `
			INSERT INTO batches (org_id, ingredient_type_id, name, category, expiry, lot_number, quantity, unit, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(ctx, query,
			b.OrgID, b.IngredientTypeID, b.Name, b.Category,
			b.Expiry, b.LotNumber, b.Quantity, b.Unit).
			Scan(&b.ID, &b.CreatedAt); err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) ListBatches(ctx context.Context, orgID int64) ([]domain.Batch, error) {
	query := `
		SELECT id, org_id, ingredient_type_id, name, category, expiry, lot_number, quantity, unit, created_at
		FROM batches
		WHERE org_id = $1
		ORDER BY name, expiry IS NULL, expiry, id
	`
	var batches []domain.Batch
	if err := r.db.SelectContext(ctx, &batches, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

func (r *ledgerRepository) StockTotals(ctx context.Context, orgID int64) ([]domain.StockTotal, error) {
	query := `
		SELECT
			b.ingredient_type_id,
			it.name AS ingredient_name,
			it.category,
			b.unit,
			SUM(b.quantity) AS quantity
		FROM batches b
		JOIN ingredient_types it ON it.id = b.ingredient_type_id
		WHERE b.org_id = $1
		GROUP BY b.ingredient_type_id, it.name, it.category, b.unit
		ORDER BY it.name, b.unit
	`
	var totals []domain.StockTotal
	if err := r.db.SelectContext(ctx, &totals, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to sum stock totals: %w", err)
	}
	return totals, nil
}

// WithOrgLock serializes consumption per organization with an advisory
// transaction lock, then hands the engine a transactional ledger view.
func (r *ledgerRepository) WithOrgLock(ctx context.Context, orgID int64, fn func(tx repository.LedgerTx) error) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock($1, $2)`, advisoryClassConsume, int32(orgID)); err != nil {
			return fmt.Errorf("failed to acquire org lock: %w", err)
		}
		return fn(&ledgerTx{ctx: ctx, tx: tx, orgID: orgID})
	})
}

// advisoryClassConsume namespaces the consumption advisory locks away
// from any other advisory lock users sharing the database.
const advisoryClassConsume = int32(0x5753)

type ledgerTx struct {
	ctx   context.Context
	tx    *sqlx.Tx
	orgID int64
}

func (t *ledgerTx) HasStock() (bool, error) {
	var exists bool
	if err := t.tx.QueryRowxContext(t.ctx,
		`SELECT EXISTS (SELECT 1 FROM batches WHERE org_id = $1)`, t.orgID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check stock existence: %w", err)
	}
	return exists, nil
}

func (t *ledgerTx) BatchesForType(typeID int64) ([]domain.Batch, error) {
	query := `
		SELECT id, org_id, ingredient_type_id, name, category, expiry, lot_number, quantity, unit, created_at
		FROM batches
		WHERE org_id = $1 AND ingredient_type_id = $2
		ORDER BY expiry IS NULL, expiry, id
		FOR UPDATE
	`
	var batches []domain.Batch
	if err := t.tx.SelectContext(t.ctx, &batches, query, t.orgID, typeID); err != nil {
		return nil, fmt.Errorf("failed to load batches for type %d: %w", typeID, err)
	}
	return batches, nil
}

func (t *ledgerTx) DecrementBatch(batchID int64, qty decimal.Decimal) error {
	// The CHECK (quantity >= 0) constraint backstops the engine's own
	// availability accounting.
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE batches SET quantity = quantity - $1 WHERE org_id = $2 AND id = $3 AND quantity >= $1`,
		qty, t.orgID, batchID)
	if err != nil {
		return fmt.Errorf("failed to decrement batch %d: %w", batchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch %d has less stock than planned deduction %s", batchID, qty.String())
	}
	return nil
}

func (t *ledgerTx) AppendEvent(ev *domain.ConsumptionEvent) (int64, error) {
	query := `
		INSERT INTO consumption_events (org_id, dish_id, servings, deduction_count, occurred_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, occurred_at
	`
	if err := t.tx.QueryRowxContext(t.ctx, query,
		ev.OrgID, ev.DishID, ev.Servings, ev.DeductionCount).
		Scan(&ev.ID, &ev.OccurredAt); err != nil {
		return 0, fmt.Errorf("failed to append consumption event: %w", err)
	}
	return ev.ID, nil
}

func (t *ledgerTx) RecordDeductions(eventID int64, deductions []domain.Deduction) error {
	query := `
		INSERT INTO consumption_deductions (event_id, batch_id, ingredient_name, lot_number, expiry, quantity, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	stmt, err := t.tx.PreparexContext(t.ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range deductions {
		if _, err := stmt.ExecContext(t.ctx, eventID, d.BatchID,
			d.IngredientName, d.LotNumber, d.Expiry, d.Quantity, d.Unit); err != nil {
			return fmt.Errorf("failed to record deduction for batch %d: %w", d.BatchID, err)
		}
	}
	return nil
}
