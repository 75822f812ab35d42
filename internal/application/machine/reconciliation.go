package machine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

var reconciliationTransitions = status.TransitionMap{
	entity.ReconciliationStatusPending:   {entity.ReconciliationStatusMatched, entity.ReconciliationStatusVariance, entity.ReconciliationStatusUnmatched},
	entity.ReconciliationStatusMatched:   {entity.ReconciliationStatusConfirmed, entity.ReconciliationStatusVariance, entity.ReconciliationStatusDisputed},
	entity.ReconciliationStatusVariance:  {entity.ReconciliationStatusConfirmed, entity.ReconciliationStatusDisputed, entity.ReconciliationStatusMatched},
	entity.ReconciliationStatusUnmatched: {entity.ReconciliationStatusMatched, entity.ReconciliationStatusVariance},
	entity.ReconciliationStatusDisputed:  {entity.ReconciliationStatusVariance, entity.ReconciliationStatusConfirmed},
	entity.ReconciliationStatusConfirmed: {},
}

// ReconciliationMachine drives reconciliation status transitions
type ReconciliationMachine struct {
	*Machine[*entity.Reconciliation]
}

// NewReconciliationMachine creates the reconciliation state machine
func NewReconciliationMachine(
	recs port.ReconciliationRepository,
	history port.HistoryRepository,
	clock port.Clock,
	logger Logger,
	opts ...Option[*entity.Reconciliation],
) *ReconciliationMachine {
	adapter := &reconciliationAdapter{recs: recs, logger: logger}
	return &ReconciliationMachine{Machine: New(adapter, history, clock, logger, opts...)}
}

type reconciliationAdapter struct {
	recs   port.ReconciliationRepository
	logger Logger
}

func (a *reconciliationAdapter) EntityType() string                           { return entity.EntityTypeReconciliation }
func (a *reconciliationAdapter) Transitions() status.TransitionMap            { return reconciliationTransitions }
func (a *reconciliationAdapter) ID(r *entity.Reconciliation) int64            { return r.ID }
func (a *reconciliationAdapter) Status(r *entity.Reconciliation) string       { return r.Status }
func (a *reconciliationAdapter) SetStatus(r *entity.Reconciliation, s string) { r.Status = s }

// BeforeTransition enforces the reconciliation business rules: matched needs
// a linked warehouse receipt, variance needs a variance amount or notes, and
// disputed needs a non-empty reason. Which statuses each can be reached from
// is already enforced by the transition table.
func (a *reconciliationAdapter) BeforeTransition(ctx context.Context, r *entity.Reconciliation, oldStatus, newStatus, actor, reason string) error {
	switch newStatus {
	case entity.ReconciliationStatusMatched:
		if r.WarehouseReceiptID == nil {
			return fmt.Errorf("%w: reconciliation %d has no linked warehouse receipt", status.ErrPreconditionFailed, r.ID)
		}
	case entity.ReconciliationStatusVariance:
		if r.VarianceAmount == nil && strings.TrimSpace(r.Notes) == "" {
			return fmt.Errorf("%w: reconciliation %d needs a variance amount or notes", status.ErrPreconditionFailed, r.ID)
		}
	case entity.ReconciliationStatusDisputed:
		if strings.TrimSpace(reason) == "" {
			return fmt.Errorf("%w: disputing reconciliation %d requires a reason", status.ErrPreconditionFailed, r.ID)
		}
	}
	return nil
}

func (a *reconciliationAdapter) AfterTransition(ctx context.Context, r *entity.Reconciliation, oldStatus, newStatus, actor, reason string) error {
	a.logger.Info("reconciliation status changed",
		"reconciliation_id", r.ID,
		"supplier_id", r.SupplierID,
		"from", oldStatus,
		"to", newStatus,
		"actor", actor)
	return nil
}

func (a *reconciliationAdapter) Save(ctx context.Context, r *entity.Reconciliation) error {
	return a.recs.UpdateStatus(ctx, r.ID, r.Status)
}
