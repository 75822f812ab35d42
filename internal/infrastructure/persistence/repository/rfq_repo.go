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

// RfqRepository implements port.RfqRepository
type RfqRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewRfqRepository creates a new RFQ repository
func NewRfqRepository(db *sqlite.DB, logger *zap.Logger) port.RfqRepository {
	return &RfqRepository{db: db, logger: logger}
}

// Create persists a new RFQ
func (r *RfqRepository) Create(ctx context.Context, rfq *entity.Rfq) error {
	query := `
		INSERT INTO rfqs (title, status, valid_until, line_item_mode, created_by)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rfq.Title, rfq.Status, rfq.ValidUntil, rfq.LineItemMode, rfq.CreatedBy)
	if err != nil {
		r.logger.Error("Failed to create rfq", zap.Error(err))
		return fmt.Errorf("failed to create rfq: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rfq.ID = id
	return nil
}

// GetByID retrieves an RFQ by ID; returns nil when absent
func (r *RfqRepository) GetByID(ctx context.Context, id int64) (*entity.Rfq, error) {
	query := `
		SELECT id, title, status, valid_until, line_item_mode, created_by, created_at, updated_at
		FROM rfqs WHERE id = ?
	`

	var rfq entity.Rfq
	var validUntil sql.NullTime

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&rfq.ID, &rfq.Title, &rfq.Status, &validUntil,
		&rfq.LineItemMode, &rfq.CreatedBy, &rfq.CreatedAt, &rfq.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get rfq", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get rfq: %w", err)
	}

	if validUntil.Valid {
		rfq.ValidUntil = &validUntil.Time
	}
	return &rfq, nil
}

// UpdateStatus updates an RFQ's status
func (r *RfqRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE rfqs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update rfq status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update rfq status: %w", err)
	}
	return nil
}

// CountLineItems returns the number of line items attached to an RFQ
func (r *RfqRepository) CountLineItems(ctx context.Context, rfqID int64) (int, error) {
	query := `SELECT COUNT(*) FROM rfq_line_items WHERE rfq_id = ?`

	var count int
	if err := r.db.Executor(ctx).QueryRowContext(ctx, query, rfqID).Scan(&count); err != nil {
		r.logger.Error("Failed to count rfq line items", zap.Int64("rfq_id", rfqID), zap.Error(err))
		return 0, fmt.Errorf("failed to count line items: %w", err)
	}
	return count, nil
}

// Verify interface compliance
var _ port.RfqRepository = (*RfqRepository)(nil)
