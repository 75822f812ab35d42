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

// ReconciliationRepository implements port.ReconciliationRepository
type ReconciliationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository(db *sqlite.DB, logger *zap.Logger) port.ReconciliationRepository {
	return &ReconciliationRepository{db: db, logger: logger}
}

// Create persists a new reconciliation
func (r *ReconciliationRepository) Create(ctx context.Context, rec *entity.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (supplier_id, period, status, statement_amount, warehouse_receipt_id, variance_amount, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.SupplierID, rec.Period, rec.Status, rec.StatementAmount,
		rec.WarehouseReceiptID, rec.VarianceAmount, rec.Notes)
	if err != nil {
		r.logger.Error("Failed to create reconciliation", zap.Error(err))
		return fmt.Errorf("failed to create reconciliation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rec.ID = id
	return nil
}

// GetByID retrieves a reconciliation by ID; returns nil when absent
func (r *ReconciliationRepository) GetByID(ctx context.Context, id int64) (*entity.Reconciliation, error) {
	query := `
		SELECT id, supplier_id, period, status, statement_amount, warehouse_receipt_id, variance_amount, notes, created_at, updated_at
		FROM reconciliations WHERE id = ?
	`

	var rec entity.Reconciliation
	var receiptID sql.NullInt64
	var variance sql.NullFloat64

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.SupplierID, &rec.Period, &rec.Status, &rec.StatementAmount,
		&receiptID, &variance, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get reconciliation", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get reconciliation: %w", err)
	}

	if receiptID.Valid {
		rec.WarehouseReceiptID = &receiptID.Int64
	}
	if variance.Valid {
		rec.VarianceAmount = &variance.Float64
	}
	return &rec, nil
}

// UpdateStatus updates a reconciliation's status
func (r *ReconciliationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE reconciliations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update reconciliation status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update reconciliation status: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.ReconciliationRepository = (*ReconciliationRepository)(nil)
