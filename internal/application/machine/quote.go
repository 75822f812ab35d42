package machine

import (
	"context"
	"fmt"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

var quoteTransitions = status.TransitionMap{
	entity.QuoteStatusDraft:     {entity.QuoteStatusSubmitted},
	entity.QuoteStatusSubmitted: {entity.QuoteStatusSelected, entity.QuoteStatusRejected, entity.QuoteStatusWithdrawn},
	entity.QuoteStatusSelected:  {},
	entity.QuoteStatusRejected:  {},
	entity.QuoteStatusWithdrawn: {},
}

// QuoteMachine drives quote status transitions
type QuoteMachine struct {
	*Machine[*entity.Quote]
}

// NewQuoteMachine creates the quote state machine
func NewQuoteMachine(
	quotes port.QuoteRepository,
	history port.HistoryRepository,
	clock port.Clock,
	logger Logger,
	opts ...Option[*entity.Quote],
) *QuoteMachine {
	adapter := &quoteAdapter{quotes: quotes, logger: logger}
	return &QuoteMachine{Machine: New(adapter, history, clock, logger, opts...)}
}

type quoteAdapter struct {
	quotes port.QuoteRepository
	logger Logger
}

func (a *quoteAdapter) EntityType() string                  { return entity.EntityTypeQuote }
func (a *quoteAdapter) Transitions() status.TransitionMap   { return quoteTransitions }
func (a *quoteAdapter) ID(q *entity.Quote) int64            { return q.ID }
func (a *quoteAdapter) Status(q *entity.Quote) string       { return q.Status }
func (a *quoteAdapter) SetStatus(q *entity.Quote, s string) { q.Status = s }

// BeforeTransition rejects submitting a quote with no total amount
func (a *quoteAdapter) BeforeTransition(ctx context.Context, q *entity.Quote, oldStatus, newStatus, actor, reason string) error {
	if newStatus == entity.QuoteStatusSubmitted && q.TotalAmount == nil {
		return fmt.Errorf("%w: cannot submit quote %d without a total amount", status.ErrPreconditionFailed, q.ID)
	}
	return nil
}

func (a *quoteAdapter) AfterTransition(ctx context.Context, q *entity.Quote, oldStatus, newStatus, actor, reason string) error {
	a.logger.Info("quote status changed",
		"quote_id", q.ID,
		"rfq_id", q.RfqID,
		"from", oldStatus,
		"to", newStatus,
		"actor", actor)
	return nil
}

func (a *quoteAdapter) Save(ctx context.Context, q *entity.Quote) error {
	return a.quotes.UpdateStatus(ctx, q.ID, q.Status)
}
