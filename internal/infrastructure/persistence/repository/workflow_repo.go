package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/sqlite"
	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

// WorkflowRepository implements port.WorkflowStore: a pure persistence
// adapter with no business rules. Instance and step rows are created together
// in one transaction; mutations are single conditional updates scoped by
// workflow id (and step order where relevant). No optimistic-concurrency
// token is used; concurrent decisions on the same instance are
// last-writer-wins.
type WorkflowRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewWorkflowRepository creates a new workflow store
func NewWorkflowRepository(db *sqlite.DB, logger *zap.Logger) port.WorkflowStore {
	return &WorkflowRepository{db: db, logger: logger}
}

// CreateWorkflow inserts the instance row and one row per step atomically
func (r *WorkflowRepository) CreateWorkflow(ctx context.Context, instance *entity.WorkflowInstance, steps []*entity.WorkflowStep) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		instanceQuery := `
			INSERT INTO workflow_instances (id, workflow_type, entity_type, entity_id, status, current_step, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := r.db.Executor(txCtx).ExecContext(txCtx, instanceQuery,
			instance.ID, instance.WorkflowType, instance.EntityType, instance.EntityID,
			instance.Status, instance.CurrentStep, instance.CreatedBy,
			instance.CreatedAt, instance.UpdatedAt)
		if err != nil {
			r.logger.Error("Failed to create workflow instance", zap.Error(err))
			return fmt.Errorf("failed to create workflow instance: %w", err)
		}

		stepQuery := `
			INSERT INTO workflow_steps (id, workflow_id, step_order, name, assignee, status, metadata, due_at, completed_at, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, step := range steps {
			_, err := r.db.Executor(txCtx).ExecContext(txCtx, stepQuery,
				step.ID, step.WorkflowID, step.StepOrder, step.Name, step.Assignee,
				step.Status, step.Metadata, step.DueAt, step.CompletedAt, step.Notes)
			if err != nil {
				r.logger.Error("Failed to create workflow step",
					zap.String("workflow_id", step.WorkflowID), zap.Int("step_order", step.StepOrder), zap.Error(err))
				return fmt.Errorf("failed to create workflow step %d: %w", step.StepOrder, err)
			}
		}

		return nil
	})
}

// GetInstance retrieves a workflow instance by ID; returns nil when absent
func (r *WorkflowRepository) GetInstance(ctx context.Context, workflowID string) (*entity.WorkflowInstance, error) {
	query := `
		SELECT id, workflow_type, entity_type, entity_id, status, current_step, created_by, created_at, updated_at
		FROM workflow_instances WHERE id = ?
	`

	var instance entity.WorkflowInstance
	var currentStep sql.NullString

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, workflowID).Scan(
		&instance.ID, &instance.WorkflowType, &instance.EntityType, &instance.EntityID,
		&instance.Status, &currentStep, &instance.CreatedBy,
		&instance.CreatedAt, &instance.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow instance", zap.String("workflow_id", workflowID), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow instance: %w", err)
	}

	if currentStep.Valid {
		instance.CurrentStep = &currentStep.String
	}
	return &instance, nil
}

// GetSteps returns all steps of a workflow ordered by step order
func (r *WorkflowRepository) GetSteps(ctx context.Context, workflowID string) ([]*entity.WorkflowStep, error) {
	query := `
		SELECT id, workflow_id, step_order, name, assignee, status, metadata, due_at, completed_at, notes
		FROM workflow_steps
		WHERE workflow_id = ?
		ORDER BY step_order ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, workflowID)
	if err != nil {
		r.logger.Error("Failed to get workflow steps", zap.String("workflow_id", workflowID), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow steps: %w", err)
	}
	defer rows.Close()

	return scanSteps(rows)
}

// MarkStep sets a step's status, completion time, and notes
func (r *WorkflowRepository) MarkStep(ctx context.Context, workflowID string, stepOrder int, status string, completedAt *time.Time, notes string) error {
	query := `
		UPDATE workflow_steps
		SET status = ?, completed_at = ?, notes = ?
		WHERE workflow_id = ? AND step_order = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, completedAt, notes, workflowID, stepOrder)
	if err != nil {
		r.logger.Error("Failed to mark workflow step",
			zap.String("workflow_id", workflowID), zap.Int("step_order", stepOrder), zap.Error(err))
		return fmt.Errorf("failed to mark workflow step: %w", err)
	}
	return nil
}

// ActivateStep moves a waiting step to pending
func (r *WorkflowRepository) ActivateStep(ctx context.Context, workflowID string, stepOrder int) error {
	query := `
		UPDATE workflow_steps
		SET status = ?
		WHERE workflow_id = ? AND step_order = ? AND status = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, wf.StepStatusPending, workflowID, stepOrder, wf.StepStatusWaiting)
	if err != nil {
		r.logger.Error("Failed to activate workflow step",
			zap.String("workflow_id", workflowID), zap.Int("step_order", stepOrder), zap.Error(err))
		return fmt.Errorf("failed to activate workflow step: %w", err)
	}
	return nil
}

// CancelPendingSteps cancels every step still waiting or pending
func (r *WorkflowRepository) CancelPendingSteps(ctx context.Context, workflowID string) error {
	query := `
		UPDATE workflow_steps
		SET status = ?
		WHERE workflow_id = ? AND status IN (?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		wf.StepStatusCancelled, workflowID, wf.StepStatusPending, wf.StepStatusWaiting)
	if err != nil {
		r.logger.Error("Failed to cancel pending workflow steps", zap.String("workflow_id", workflowID), zap.Error(err))
		return fmt.Errorf("failed to cancel pending workflow steps: %w", err)
	}
	return nil
}

// UpdateInstance sets the instance status and current step
func (r *WorkflowRepository) UpdateInstance(ctx context.Context, workflowID string, status string, currentStep *string) error {
	query := `
		UPDATE workflow_instances
		SET status = ?, current_step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, currentStep, workflowID)
	if err != nil {
		r.logger.Error("Failed to update workflow instance", zap.String("workflow_id", workflowID), zap.Error(err))
		return fmt.Errorf("failed to update workflow instance: %w", err)
	}
	return nil
}

// ListOverdueSteps returns pending steps of in-progress workflows whose due
// date has passed
func (r *WorkflowRepository) ListOverdueSteps(ctx context.Context, now time.Time, limit int) ([]*entity.WorkflowStep, error) {
	query := `
		SELECT s.id, s.workflow_id, s.step_order, s.name, s.assignee, s.status, s.metadata, s.due_at, s.completed_at, s.notes
		FROM workflow_steps s
		JOIN workflow_instances w ON w.id = s.workflow_id
		WHERE s.status = ? AND w.status = ? AND s.due_at IS NOT NULL AND s.due_at < ?
		ORDER BY s.due_at ASC
		LIMIT ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, wf.StepStatusPending, wf.InstanceStatusInProgress, now, limit)
	if err != nil {
		r.logger.Error("Failed to list overdue workflow steps", zap.Error(err))
		return nil, fmt.Errorf("failed to list overdue workflow steps: %w", err)
	}
	defer rows.Close()

	return scanSteps(rows)
}

func scanSteps(rows *sql.Rows) ([]*entity.WorkflowStep, error) {
	var steps []*entity.WorkflowStep
	for rows.Next() {
		var step entity.WorkflowStep
		var dueAt, completedAt sql.NullTime

		if err := rows.Scan(
			&step.ID, &step.WorkflowID, &step.StepOrder, &step.Name, &step.Assignee,
			&step.Status, &step.Metadata, &dueAt, &completedAt, &step.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workflow step: %w", err)
		}

		if dueAt.Valid {
			step.DueAt = &dueAt.Time
		}
		if completedAt.Valid {
			step.CompletedAt = &completedAt.Time
		}
		steps = append(steps, &step)
	}
	return steps, rows.Err()
}

// Verify interface compliance
var _ port.WorkflowStore = (*WorkflowRepository)(nil)
