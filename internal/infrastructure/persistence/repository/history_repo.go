package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. Status history rows
// are append-only; no update or delete statement exists here.
type HistoryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *sqlite.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// Create appends a status history row
func (r *HistoryRepository) Create(ctx context.Context, h *entity.StatusHistory) error {
	query := `
		INSERT INTO status_history (entity_type, entity_id, from_status, to_status, changed_by, changed_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		h.EntityType, h.EntityID, h.FromStatus, h.ToStatus, h.ChangedBy, h.ChangedAt, h.Reason)
	if err != nil {
		r.logger.Error("Failed to create status history", zap.Error(err))
		return fmt.Errorf("failed to create status history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	h.ID = id
	return nil
}

// ListByEntity returns an entity's history rows, most recent first
func (r *HistoryRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, entity_type, entity_id, from_status, to_status, changed_by, changed_at, reason
		FROM status_history
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		r.logger.Error("Failed to list status history",
			zap.String("entity_type", entityType), zap.Int64("entity_id", entityID), zap.Error(err))
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var history []*entity.StatusHistory
	for rows.Next() {
		var h entity.StatusHistory
		if err := rows.Scan(
			&h.ID, &h.EntityType, &h.EntityID, &h.FromStatus,
			&h.ToStatus, &h.ChangedBy, &h.ChangedAt, &h.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
