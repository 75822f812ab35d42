package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/sqlite"
)

const changeRequestColumns = `
	id, supplier_id, change_type, status, current_step, payload,
	submitted_by, submitted_at, updated_at, risk_level, requires_quality`

// ChangeRequestRepository implements port.ChangeRequestRepository
type ChangeRequestRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewChangeRequestRepository creates a new change request repository
func NewChangeRequestRepository(db *sqlite.DB, logger *zap.Logger) port.ChangeRequestRepository {
	return &ChangeRequestRepository{db: db, logger: logger}
}

// Create persists a new change request
func (r *ChangeRequestRepository) Create(ctx context.Context, cr *entity.ChangeRequest) error {
	query := `
		INSERT INTO change_requests (
			id, supplier_id, change_type, status, current_step, payload,
			submitted_by, submitted_at, updated_at, risk_level, requires_quality
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		cr.ID, cr.SupplierID, cr.ChangeType, cr.Status, cr.CurrentStep, cr.Payload,
		cr.SubmittedBy, cr.SubmittedAt, cr.UpdatedAt, cr.RiskLevel, cr.RequiresQuality)
	if err != nil {
		r.logger.Error("Failed to create change request", zap.Error(err))
		return fmt.Errorf("failed to create change request: %w", err)
	}
	return nil
}

// GetByID retrieves a change request by ID; returns nil when absent
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id string) (*entity.ChangeRequest, error) {
	query := `SELECT` + changeRequestColumns + ` FROM change_requests WHERE id = ?`

	cr, err := scanChangeRequest(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get change request", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get change request: %w", err)
	}
	return cr, nil
}

// UpdateStatus sets a change request's status and current step
func (r *ChangeRequestRepository) UpdateStatus(ctx context.Context, id string, status, currentStep string) error {
	query := `
		UPDATE change_requests
		SET status = ?, current_step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, currentStep, id)
	if err != nil {
		r.logger.Error("Failed to update change request status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update change request status: %w", err)
	}
	return nil
}

// ListBySupplier returns all change requests of a supplier, newest first
func (r *ChangeRequestRepository) ListBySupplier(ctx context.Context, supplierID int64) ([]*entity.ChangeRequest, error) {
	query := `SELECT` + changeRequestColumns + ` FROM change_requests WHERE supplier_id = ? ORDER BY submitted_at DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, supplierID)
	if err != nil {
		r.logger.Error("Failed to list change requests", zap.Int64("supplier_id", supplierID), zap.Error(err))
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}
	defer rows.Close()

	return collectChangeRequests(rows)
}

// ListPending returns change requests still awaiting a decision, oldest first
func (r *ChangeRequestRepository) ListPending(ctx context.Context, limit, offset int) ([]*entity.ChangeRequest, error) {
	query := `SELECT` + changeRequestColumns + `
		FROM change_requests
		WHERE status LIKE 'pending_%'
		ORDER BY submitted_at ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list pending change requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending change requests: %w", err)
	}
	defer rows.Close()

	return collectChangeRequests(rows)
}

// CreateApproval records a decision on a change request step
func (r *ChangeRequestRepository) CreateApproval(ctx context.Context, a *entity.ChangeRequestApproval) error {
	query := `
		INSERT INTO change_request_approvals (change_request_id, step_key, decision, decided_by, comments, decided_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		a.ChangeRequestID, a.StepKey, a.Decision, a.DecidedBy, a.Comments, a.DecidedAt)
	if err != nil {
		r.logger.Error("Failed to create approval record", zap.String("change_request_id", a.ChangeRequestID), zap.Error(err))
		return fmt.Errorf("failed to create approval record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	a.ID = id
	return nil
}

// ListApprovals returns a change request's approval records in decision order
func (r *ChangeRequestRepository) ListApprovals(ctx context.Context, changeRequestID string) ([]*entity.ChangeRequestApproval, error) {
	query := `
		SELECT id, change_request_id, step_key, decision, decided_by, comments, decided_at
		FROM change_request_approvals
		WHERE change_request_id = ?
		ORDER BY decided_at ASC, id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, changeRequestID)
	if err != nil {
		r.logger.Error("Failed to list approvals", zap.String("change_request_id", changeRequestID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.ChangeRequestApproval
	for rows.Next() {
		var a entity.ChangeRequestApproval
		if err := rows.Scan(&a.ID, &a.ChangeRequestID, &a.StepKey, &a.Decision, &a.DecidedBy, &a.Comments, &a.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, &a)
	}
	return approvals, rows.Err()
}

func scanChangeRequest(row rowScanner) (*entity.ChangeRequest, error) {
	var cr entity.ChangeRequest
	err := row.Scan(
		&cr.ID, &cr.SupplierID, &cr.ChangeType, &cr.Status, &cr.CurrentStep, &cr.Payload,
		&cr.SubmittedBy, &cr.SubmittedAt, &cr.UpdatedAt, &cr.RiskLevel, &cr.RequiresQuality,
	)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func collectChangeRequests(rows *sql.Rows) ([]*entity.ChangeRequest, error) {
	var requests []*entity.ChangeRequest
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change request: %w", err)
		}
		requests = append(requests, cr)
	}
	return requests, rows.Err()
}

// Verify interface compliance
var _ port.ChangeRequestRepository = (*ChangeRequestRepository)(nil)
