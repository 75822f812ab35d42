package port

import (
	"context"
	"time"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
)

// SupplierRepository defines persistence operations for Supplier
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}

// RfqRepository defines persistence operations for Rfq
type RfqRepository interface {
	Create(ctx context.Context, rfq *entity.Rfq) error
	GetByID(ctx context.Context, id int64) (*entity.Rfq, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountLineItems(ctx context.Context, rfqID int64) (int, error)
}

// QuoteRepository defines persistence operations for Quote
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id int64) (*entity.Quote, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// ReconciliationRepository defines persistence operations for Reconciliation
type ReconciliationRepository interface {
	Create(ctx context.Context, rec *entity.Reconciliation) error
	GetByID(ctx context.Context, id int64) (*entity.Reconciliation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// HistoryRepository defines persistence operations for StatusHistory rows.
// Rows are append-only; there is no update or delete.
type HistoryRepository interface {
	Create(ctx context.Context, history *entity.StatusHistory) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusHistory, error)
}

// WorkflowStore defines persistence operations for workflow instances and
// their steps. CreateWorkflow must insert the instance and all step rows in
// one transaction; the mutation methods are single conditional updates scoped
// by workflow id (and step order where relevant).
type WorkflowStore interface {
	CreateWorkflow(ctx context.Context, instance *entity.WorkflowInstance, steps []*entity.WorkflowStep) error
	GetInstance(ctx context.Context, workflowID string) (*entity.WorkflowInstance, error)
	GetSteps(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error)
	MarkStep(ctx context.Context, workflowID string, stepOrder int, status string, completedAt *time.Time, notes string) error
	ActivateStep(ctx context.Context, workflowID string, stepOrder int) error
	CancelPendingSteps(ctx context.Context, workflowID string) error
	UpdateInstance(ctx context.Context, workflowID string, status string, currentStep *string) error
	ListOverdueSteps(ctx context.Context, now time.Time, limit int) ([]*entity.WorkflowStep, error)
}

// ChangeRequestRepository defines persistence operations for change requests
// and their approval records
type ChangeRequestRepository interface {
	Create(ctx context.Context, cr *entity.ChangeRequest) error
	GetByID(ctx context.Context, id string) (*entity.ChangeRequest, error)
	UpdateStatus(ctx context.Context, id string, status, currentStep string) error
	ListBySupplier(ctx context.Context, supplierID int64) ([]*entity.ChangeRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]*entity.ChangeRequest, error)
	CreateApproval(ctx context.Context, approval *entity.ChangeRequestApproval) error
	ListApprovals(ctx context.Context, changeRequestID string) ([]*entity.ChangeRequestApproval, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock supplies the current UTC time; injected for deterministic testing of
// due dates and timestamps
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() time.Time

// Now returns the current time from the wrapped function
func (f ClockFunc) Now() time.Time { return f() }
