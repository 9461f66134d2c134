package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

func newType(t *testing.T, s *Store, orgID int64, name, category string) int64 {
	t.Helper()
	it := &domain.IngredientType{OrgID: orgID, Name: name, Category: category}
	require.NoError(t, s.CreateIngredientType(context.Background(), it))
	return it.ID
}

func TestCreateBatch_RequiresIdentity(t *testing.T) {
	s := NewStore()
	typeID := newType(t, s, 1, "Flour", "Dry Goods")

	err := s.CreateBatch(context.Background(), &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		Quantity:         decimal.NewFromInt(5),
		Unit:             "lbs",
	})
	assert.ErrorIs(t, err, domain.ErrBatchIdentity)

	lot := "B1001"
	err = s.CreateBatch(context.Background(), &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		LotNumber:        &lot,
		Quantity:         decimal.NewFromInt(-1),
		Unit:             "lbs",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateBatch_FreezesTypeName(t *testing.T) {
	s := NewStore()
	typeID := newType(t, s, 1, "Tomato", "Produce")

	lot := "B2002"
	b := &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		LotNumber:        &lot,
		Quantity:         decimal.NewFromInt(3),
		Unit:             "lbs",
	}
	require.NoError(t, s.CreateBatch(context.Background(), b))

	assert.Equal(t, "Tomato", b.Name)
	assert.Equal(t, "Produce", b.Category)
}

func TestStockTotals_GroupsByTypeAndUnit(t *testing.T) {
	s := NewStore()
	oil := newType(t, s, 1, "Olive Oil", "Dry Goods")

	lot := "B1"
	for _, entry := range []struct {
		qty  int64
		unit string
	}{
		{32, "oz"}, {16, "oz"}, {2, "lbs"},
	} {
		require.NoError(t, s.CreateBatch(context.Background(), &domain.Batch{
			OrgID:            1,
			IngredientTypeID: oil,
			LotNumber:        &lot,
			Quantity:         decimal.NewFromInt(entry.qty),
			Unit:             entry.unit,
		}))
	}

	totals, err := s.StockTotals(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, "lbs", totals[0].Unit)
	assert.Equal(t, "2", totals[0].Quantity.String())
	assert.Equal(t, "oz", totals[1].Unit)
	assert.Equal(t, "48", totals[1].Quantity.String())
}

func TestDeleteIngredientType_BlockedWhileReferenced(t *testing.T) {
	s := NewStore()
	typeID := newType(t, s, 1, "Butter", "Dairy")

	lot := "B3"
	require.NoError(t, s.CreateBatch(context.Background(), &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		LotNumber:        &lot,
		Quantity:         decimal.NewFromInt(1),
		Unit:             "lbs",
	}))

	err := s.DeleteIngredientType(context.Background(), 1, typeID)
	assert.ErrorIs(t, err, domain.ErrIngredientTypeInUse)
}

func TestWithOrgLock_RollsBackOnError(t *testing.T) {
	s := NewStore()
	typeID := newType(t, s, 1, "Rice", "Dry Goods")

	lot := "B4"
	b := &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		LotNumber:        &lot,
		Quantity:         decimal.NewFromInt(10),
		Unit:             "lbs",
	}
	require.NoError(t, s.CreateBatch(context.Background(), b))

	failure := errors.New("abort")
	err := s.WithOrgLock(context.Background(), 1, func(tx repository.LedgerTx) error {
		if err := tx.DecrementBatch(b.ID, decimal.NewFromInt(4)); err != nil {
			return err
		}
		if _, err := tx.AppendEvent(&domain.ConsumptionEvent{OrgID: 1, DishID: 7, Servings: decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	batches, err := s.ListBatches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "10", batches[0].Quantity.String())

	events, err := s.ListSince(context.Background(), 1, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestBatchesForType_SeesPendingDecrements(t *testing.T) {
	s := NewStore()
	typeID := newType(t, s, 1, "Onion", "Produce")

	lot := "B5"
	b := &domain.Batch{
		OrgID:            1,
		IngredientTypeID: typeID,
		LotNumber:        &lot,
		Quantity:         decimal.NewFromInt(6),
		Unit:             "lbs",
	}
	require.NoError(t, s.CreateBatch(context.Background(), b))

	err := s.WithOrgLock(context.Background(), 1, func(tx repository.LedgerTx) error {
		if err := tx.DecrementBatch(b.ID, decimal.NewFromInt(4)); err != nil {
			return err
		}
		batches, err := tx.BatchesForType(typeID)
		if err != nil {
			return err
		}
		require.Len(t, batches, 1)
		assert.Equal(t, "2", batches[0].Quantity.String())

		// Over-draw beyond the remaining 2 must fail.
		return tx.DecrementBatch(b.ID, decimal.NewFromInt(3))
	})
	assert.Error(t, err)
}
