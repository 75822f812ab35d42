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

// QuoteRepository implements port.QuoteRepository
type QuoteRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sqlite.DB, logger *zap.Logger) port.QuoteRepository {
	return &QuoteRepository{db: db, logger: logger}
}

// Create persists a new quote
func (r *QuoteRepository) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (rfq_id, supplier_id, status, total_amount, currency, remarks, submitted_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		q.RfqID, q.SupplierID, q.Status, q.TotalAmount, q.Currency, q.Remarks, q.SubmittedBy)
	if err != nil {
		r.logger.Error("Failed to create quote", zap.Error(err))
		return fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	q.ID = id
	return nil
}

// GetByID retrieves a quote by ID; returns nil when absent
func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*entity.Quote, error) {
	query := `
		SELECT id, rfq_id, supplier_id, status, total_amount, currency, remarks, submitted_by, created_at, updated_at
		FROM quotes WHERE id = ?
	`

	var q entity.Quote
	var totalAmount sql.NullFloat64

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.RfqID, &q.SupplierID, &q.Status, &totalAmount,
		&q.Currency, &q.Remarks, &q.SubmittedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get quote", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if totalAmount.Valid {
		q.TotalAmount = &totalAmount.Float64
	}
	return &q, nil
}

// UpdateStatus updates a quote's status
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE quotes SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update quote status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.QuoteRepository = (*QuoteRepository)(nil)
