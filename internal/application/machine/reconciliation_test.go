package machine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

type fakeReconciliationRepo struct {
	updatedStatus string
	updatedCalls  int
}

func (f *fakeReconciliationRepo) Create(ctx context.Context, rec *entity.Reconciliation) error {
	return nil
}
func (f *fakeReconciliationRepo) GetByID(ctx context.Context, id int64) (*entity.Reconciliation, error) {
	return nil, nil
}
func (f *fakeReconciliationRepo) UpdateStatus(ctx context.Context, id int64, s string) error {
	f.updatedStatus = s
	f.updatedCalls++
	return nil
}

func receipt(id int64) *int64 { return &id }

func TestReconciliationTransitionGrid(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{"pending", "matched", true},
		{"pending", "variance", true},
		{"pending", "unmatched", true},
		{"pending", "confirmed", false},
		{"pending", "disputed", false},
		{"matched", "confirmed", true},
		{"matched", "variance", true},
		{"matched", "disputed", true},
		{"matched", "pending", false},
		{"variance", "confirmed", true},
		{"variance", "disputed", true},
		{"variance", "matched", true},
		{"unmatched", "matched", true},
		{"unmatched", "variance", true},
		{"unmatched", "confirmed", false},
		{"disputed", "variance", true},
		{"disputed", "confirmed", true},
		{"confirmed", "pending", false},
		{"confirmed", "disputed", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			repo := &fakeReconciliationRepo{}
			m := NewReconciliationMachine(repo, &fakeHistoryRepo{}, testClock, nopLogger{})

			rec := &entity.Reconciliation{
				ID:                 1,
				Status:             tt.from,
				WarehouseReceiptID: receipt(42),
				VarianceAmount:     amount(-15.75),
			}
			err := m.Transition(context.Background(), rec, tt.to, "accountant", "quarterly review")

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, rec.Status)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, status.ErrInvalidTransition))
				assert.Zero(t, repo.updatedCalls)
			}
		})
	}
}

func TestReconciliationMatchedNeedsReceipt(t *testing.T) {
	repo := &fakeReconciliationRepo{}
	m := NewReconciliationMachine(repo, &fakeHistoryRepo{}, testClock, nopLogger{})

	rec := &entity.Reconciliation{ID: 2, Status: entity.ReconciliationStatusPending}
	err := m.Transition(context.Background(), rec, entity.ReconciliationStatusMatched, "accountant", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPreconditionFailed))
}

func TestReconciliationVarianceNeedsAmountOrNotes(t *testing.T) {
	t.Run("neither", func(t *testing.T) {
		m := NewReconciliationMachine(&fakeReconciliationRepo{}, &fakeHistoryRepo{}, testClock, nopLogger{})
		rec := &entity.Reconciliation{ID: 3, Status: entity.ReconciliationStatusPending}
		err := m.Transition(context.Background(), rec, entity.ReconciliationStatusVariance, "accountant", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrPreconditionFailed))
	})

	t.Run("notes only", func(t *testing.T) {
		m := NewReconciliationMachine(&fakeReconciliationRepo{}, &fakeHistoryRepo{}, testClock, nopLogger{})
		rec := &entity.Reconciliation{ID: 4, Status: entity.ReconciliationStatusPending, Notes: "short shipment"}
		require.NoError(t, m.Transition(context.Background(), rec, entity.ReconciliationStatusVariance, "accountant", ""))
	})

	t.Run("amount only", func(t *testing.T) {
		m := NewReconciliationMachine(&fakeReconciliationRepo{}, &fakeHistoryRepo{}, testClock, nopLogger{})
		rec := &entity.Reconciliation{ID: 5, Status: entity.ReconciliationStatusPending, VarianceAmount: amount(3.50)}
		require.NoError(t, m.Transition(context.Background(), rec, entity.ReconciliationStatusVariance, "accountant", ""))
	})
}

func TestReconciliationDisputeNeedsReason(t *testing.T) {
	m := NewReconciliationMachine(&fakeReconciliationRepo{}, &fakeHistoryRepo{}, testClock, nopLogger{})

	rec := &entity.Reconciliation{ID: 6, Status: entity.ReconciliationStatusMatched, WarehouseReceiptID: receipt(1)}
	err := m.Transition(context.Background(), rec, entity.ReconciliationStatusDisputed, "supplier", "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPreconditionFailed))

	require.NoError(t, m.Transition(context.Background(), rec, entity.ReconciliationStatusDisputed, "supplier", "amount contested"))
	assert.Equal(t, entity.ReconciliationStatusDisputed, rec.Status)
}
