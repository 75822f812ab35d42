package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendorlink/supplierflow/internal/application/machine"
	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

// StatusService fronts the per-entity state machines for the transport layer:
// it loads the entity, applies the transition, and maps domain errors onto
// HTTP-style service errors.
type StatusService struct {
	rfqs            port.RfqRepository
	quotes          port.QuoteRepository
	reconciliations port.ReconciliationRepository

	rfqMachine            *machine.RfqMachine
	quoteMachine          *machine.QuoteMachine
	reconciliationMachine *machine.ReconciliationMachine

	logger Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	rfqs port.RfqRepository,
	quotes port.QuoteRepository,
	reconciliations port.ReconciliationRepository,
	rfqMachine *machine.RfqMachine,
	quoteMachine *machine.QuoteMachine,
	reconciliationMachine *machine.ReconciliationMachine,
	logger Logger,
) *StatusService {
	return &StatusService{
		rfqs:                  rfqs,
		quotes:                quotes,
		reconciliations:       reconciliations,
		rfqMachine:            rfqMachine,
		quoteMachine:          quoteMachine,
		reconciliationMachine: reconciliationMachine,
		logger:                logger,
	}
}

// CreateRfq persists a new RFQ in draft status
func (s *StatusService) CreateRfq(ctx context.Context, rfq *entity.Rfq) error {
	if rfq.Title == "" {
		return badRequest("title is required")
	}
	rfq.Status = entity.RfqStatusDraft

	if err := s.rfqs.Create(ctx, rfq); err != nil {
		return fmt.Errorf("create rfq: %w", err)
	}
	return nil
}

// CreateQuote persists a new quote in draft status
func (s *StatusService) CreateQuote(ctx context.Context, q *entity.Quote) error {
	if q.RfqID == 0 {
		return badRequest("rfq_id is required")
	}
	q.Status = entity.QuoteStatusDraft

	if err := s.quotes.Create(ctx, q); err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

// CreateReconciliation persists a new reconciliation in pending status
func (s *StatusService) CreateReconciliation(ctx context.Context, rec *entity.Reconciliation) error {
	if rec.SupplierID == 0 {
		return badRequest("supplier_id is required")
	}
	rec.Status = entity.ReconciliationStatusPending

	if err := s.reconciliations.Create(ctx, rec); err != nil {
		return fmt.Errorf("create reconciliation: %w", err)
	}
	return nil
}

// TransitionRfq applies a status transition to an RFQ
func (s *StatusService) TransitionRfq(ctx context.Context, id int64, newStatus, actor, reason string) (*entity.Rfq, error) {
	rfq, err := s.rfqs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load rfq %d: %w", id, err)
	}
	if rfq == nil {
		return nil, notFound(fmt.Sprintf("rfq %d not found", id))
	}

	if err := s.rfqMachine.Transition(ctx, rfq, newStatus, actor, reason); err != nil {
		return nil, mapTransitionError(err)
	}
	return rfq, nil
}

// TransitionQuote applies a status transition to a quote
func (s *StatusService) TransitionQuote(ctx context.Context, id int64, newStatus, actor, reason string) (*entity.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load quote %d: %w", id, err)
	}
	if q == nil {
		return nil, notFound(fmt.Sprintf("quote %d not found", id))
	}

	if err := s.quoteMachine.Transition(ctx, q, newStatus, actor, reason); err != nil {
		return nil, mapTransitionError(err)
	}
	return q, nil
}

// TransitionReconciliation applies a status transition to a reconciliation
func (s *StatusService) TransitionReconciliation(ctx context.Context, id int64, newStatus, actor, reason string) (*entity.Reconciliation, error) {
	rec, err := s.reconciliations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reconciliation %d: %w", id, err)
	}
	if rec == nil {
		return nil, notFound(fmt.Sprintf("reconciliation %d not found", id))
	}

	if err := s.reconciliationMachine.Transition(ctx, rec, newStatus, actor, reason); err != nil {
		return nil, mapTransitionError(err)
	}
	return rec, nil
}

// RfqHistory returns an RFQ's status history, most recent first
func (s *StatusService) RfqHistory(ctx context.Context, id int64) []*entity.StatusHistory {
	return s.rfqMachine.History(ctx, id)
}

// QuoteHistory returns a quote's status history, most recent first
func (s *StatusService) QuoteHistory(ctx context.Context, id int64) []*entity.StatusHistory {
	return s.quoteMachine.History(ctx, id)
}

// ReconciliationHistory returns a reconciliation's status history, most
// recent first
func (s *StatusService) ReconciliationHistory(ctx context.Context, id int64) []*entity.StatusHistory {
	return s.reconciliationMachine.History(ctx, id)
}

// mapTransitionError converts machine errors into client-facing service
// errors; anything else passes through as an internal failure
func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, status.ErrInvalidTransition),
		errors.Is(err, status.ErrUnknownStatus),
		errors.Is(err, status.ErrPreconditionFailed):
		return badRequest(err.Error())
	default:
		return err
	}
}
