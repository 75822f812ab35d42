package machine

import (
	"context"
	"fmt"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

var rfqTransitions = status.TransitionMap{
	entity.RfqStatusDraft:      {entity.RfqStatusPublished, entity.RfqStatusCancelled},
	entity.RfqStatusPublished:  {entity.RfqStatusInProgress, entity.RfqStatusClosed, entity.RfqStatusCancelled},
	entity.RfqStatusInProgress: {entity.RfqStatusConfirmed, entity.RfqStatusClosed, entity.RfqStatusCancelled},
	entity.RfqStatusConfirmed:  {entity.RfqStatusClosed},
	entity.RfqStatusClosed:     {},
	entity.RfqStatusCancelled:  {},
}

// RfqMachine drives RFQ status transitions
type RfqMachine struct {
	*Machine[*entity.Rfq]
}

// NewRfqMachine creates the RFQ state machine
func NewRfqMachine(
	rfqs port.RfqRepository,
	history port.HistoryRepository,
	clock port.Clock,
	logger Logger,
	opts ...Option[*entity.Rfq],
) *RfqMachine {
	adapter := &rfqAdapter{rfqs: rfqs, clock: clock, logger: logger}
	return &RfqMachine{Machine: New(adapter, history, clock, logger, opts...)}
}

type rfqAdapter struct {
	rfqs   port.RfqRepository
	clock  port.Clock
	logger Logger
}

func (a *rfqAdapter) EntityType() string                  { return entity.EntityTypeRfq }
func (a *rfqAdapter) Transitions() status.TransitionMap   { return rfqTransitions }
func (a *rfqAdapter) ID(r *entity.Rfq) int64              { return r.ID }
func (a *rfqAdapter) Status(r *entity.Rfq) string         { return r.Status }
func (a *rfqAdapter) SetStatus(r *entity.Rfq, s string)   { r.Status = s }

// BeforeTransition rejects publishing an RFQ without a usable deadline, and
// publishing a line-item-mode RFQ with no line items.
func (a *rfqAdapter) BeforeTransition(ctx context.Context, r *entity.Rfq, oldStatus, newStatus, actor, reason string) error {
	if newStatus != entity.RfqStatusPublished {
		return nil
	}

	if r.ValidUntil == nil {
		return fmt.Errorf("%w: cannot publish RFQ %d without a valid-until deadline", status.ErrPreconditionFailed, r.ID)
	}
	if r.ValidUntil.Before(a.clock.Now()) {
		return fmt.Errorf("%w: cannot publish RFQ %d with a past deadline %s", status.ErrPreconditionFailed, r.ID, r.ValidUntil.Format("2006-01-02"))
	}

	if r.LineItemMode {
		count, err := a.rfqs.CountLineItems(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("count line items for RFQ %d: %w", r.ID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: cannot publish line-item RFQ %d with no line items", status.ErrPreconditionFailed, r.ID)
		}
	}

	return nil
}

func (a *rfqAdapter) AfterTransition(ctx context.Context, r *entity.Rfq, oldStatus, newStatus, actor, reason string) error {
	a.logger.Info("rfq status changed",
		"rfq_id", r.ID,
		"from", oldStatus,
		"to", newStatus,
		"actor", actor)
	return nil
}

func (a *rfqAdapter) Save(ctx context.Context, r *entity.Rfq) error {
	return a.rfqs.UpdateStatus(ctx, r.ID, r.Status)
}
