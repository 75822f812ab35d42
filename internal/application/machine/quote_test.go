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

type fakeQuoteRepo struct {
	updatedStatus string
	updatedCalls  int
}

func (f *fakeQuoteRepo) Create(ctx context.Context, q *entity.Quote) error { return nil }
func (f *fakeQuoteRepo) GetByID(ctx context.Context, id int64) (*entity.Quote, error) {
	return nil, nil
}
func (f *fakeQuoteRepo) UpdateStatus(ctx context.Context, id int64, s string) error {
	f.updatedStatus = s
	f.updatedCalls++
	return nil
}

func amount(v float64) *float64 { return &v }

func TestQuoteTransitionGrid(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{"draft", "submitted", true},
		{"draft", "selected", false},
		{"draft", "withdrawn", false},
		{"submitted", "selected", true},
		{"submitted", "rejected", true},
		{"submitted", "withdrawn", true},
		{"submitted", "draft", false},
		{"selected", "rejected", false},
		{"rejected", "submitted", false},
		{"withdrawn", "draft", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			repo := &fakeQuoteRepo{}
			m := NewQuoteMachine(repo, &fakeHistoryRepo{}, testClock, nopLogger{})

			q := &entity.Quote{ID: 1, Status: tt.from, TotalAmount: amount(1200.50)}
			err := m.Transition(context.Background(), q, tt.to, "supplier", "")

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, q.Status)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, status.ErrInvalidTransition))
				assert.Zero(t, repo.updatedCalls)
			}
		})
	}
}

func TestQuoteSubmitRequiresTotalAmount(t *testing.T) {
	repo := &fakeQuoteRepo{}
	m := NewQuoteMachine(repo, &fakeHistoryRepo{}, testClock, nopLogger{})

	q := &entity.Quote{ID: 2, Status: entity.QuoteStatusDraft}
	err := m.Transition(context.Background(), q, entity.QuoteStatusSubmitted, "supplier", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPreconditionFailed))
	assert.Equal(t, entity.QuoteStatusDraft, q.Status)
	assert.Zero(t, repo.updatedCalls)
}

func TestQuoteSubmitWithAmount(t *testing.T) {
	repo := &fakeQuoteRepo{}
	history := &fakeHistoryRepo{}
	m := NewQuoteMachine(repo, history, testClock, nopLogger{})

	q := &entity.Quote{ID: 3, Status: entity.QuoteStatusDraft, TotalAmount: amount(999)}
	require.NoError(t, m.Transition(context.Background(), q, entity.QuoteStatusSubmitted, "supplier", ""))
	assert.Equal(t, entity.QuoteStatusSubmitted, repo.updatedStatus)
	require.Len(t, history.rows, 1)
	assert.Equal(t, entity.EntityTypeQuote, history.rows[0].EntityType)
}
