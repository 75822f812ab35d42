package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

// Engine orchestrates multi-step sequential approvals over a workflow
// definition, independent of entity type. It owns step progression only;
// authorization is the caller's responsibility: callers must verify the
// acting user satisfies HasStepPermission for the current step before
// submitting a decision.
type Engine struct {
	store   port.WorkflowStore
	clock   port.Clock
	logger  Logger
	stepDue time.Duration
}

// EngineOption configures the workflow engine
type EngineOption func(*Engine)

// WithStepDue sets the due window applied to the first step of new instances
func WithStepDue(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.stepDue = d
	}
}

// NewEngine creates a new workflow engine
func NewEngine(store port.WorkflowStore, clock port.Clock, logger Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		clock:  clock,
		logger: logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start materializes a workflow instance plus one step row per defined step.
// Step 1 starts pending (with the due window applied, if configured); the
// remaining steps start waiting. Both writes happen in one transaction inside
// the store.
func (e *Engine) Start(ctx context.Context, def *wf.Definition, req StartRequest) (*entity.WorkflowInstance, error) {
	first, ok := def.FirstStep()
	if !ok {
		return nil, fmt.Errorf("%w: %s", wf.ErrEmptyDefinition, def.Type)
	}

	now := e.clock.Now().UTC()
	firstKey := first.Key

	instance := &entity.WorkflowInstance{
		ID:           uuid.NewString(),
		WorkflowType: def.Type,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		Status:       wf.InstanceStatusInProgress,
		CurrentStep:  &firstKey,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	steps := make([]*entity.WorkflowStep, 0, len(def.Steps))
	for i, sd := range def.Steps {
		step := &entity.WorkflowStep{
			ID:         uuid.NewString(),
			WorkflowID: instance.ID,
			StepOrder:  i + 1,
			Name:       sd.Label,
			Assignee:   sd.RequiredPermission,
			Status:     wf.StepStatusWaiting,
			Metadata:   stepMetadata(sd),
		}
		if i == 0 {
			step.Status = wf.StepStatusPending
			if e.stepDue > 0 {
				due := now.Add(e.stepDue)
				step.DueAt = &due
			}
		}
		steps = append(steps, step)
	}

	if err := e.store.CreateWorkflow(ctx, instance, steps); err != nil {
		return nil, fmt.Errorf("create workflow instance: %w", err)
	}

	e.logger.Info("workflow started",
		"workflow_id", instance.ID,
		"workflow_type", def.Type,
		"entity_type", req.EntityType,
		"entity_id", req.EntityID,
		"steps", len(steps))

	return instance, nil
}

// ApplyDecision records an approval or rejection of the given step and
// advances or terminates the instance. Rejection cancels every later step
// still waiting or pending and is terminal.
func (e *Engine) ApplyDecision(ctx context.Context, def *wf.Definition, req DecisionRequest) (*DecisionResult, error) {
	step, ok := def.StepByKey(req.StepKey)
	order := def.StepOrder(req.StepKey)
	if !ok || order <= 0 {
		return nil, fmt.Errorf("%w: %q in workflow %s", wf.ErrUnknownStep, req.StepKey, def.Type)
	}

	decision, err := wf.NormalizeDecision(req.Decision)
	if err != nil {
		return nil, err
	}

	decidedAt := req.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = e.clock.Now().UTC()
	}

	if decision == wf.DecisionRejected {
		if err := e.store.MarkStep(ctx, req.WorkflowID, order, wf.StepStatusRejected, &decidedAt, req.Comments); err != nil {
			return nil, fmt.Errorf("reject step %d: %w", order, err)
		}
		if err := e.store.CancelPendingSteps(ctx, req.WorkflowID); err != nil {
			return nil, fmt.Errorf("cancel remaining steps: %w", err)
		}
		if err := e.store.UpdateInstance(ctx, req.WorkflowID, wf.InstanceStatusRejected, nil); err != nil {
			return nil, fmt.Errorf("mark instance rejected: %w", err)
		}

		e.logger.Info("workflow rejected",
			"workflow_id", req.WorkflowID,
			"step", step.Key)

		return &DecisionResult{Status: wf.InstanceStatusRejected, IsFinal: true}, nil
	}

	if err := e.store.MarkStep(ctx, req.WorkflowID, order, wf.StepStatusCompleted, &decidedAt, req.Comments); err != nil {
		return nil, fmt.Errorf("complete step %d: %w", order, err)
	}

	next, hasNext := def.NextStep(req.StepKey)
	if !hasNext {
		if err := e.store.UpdateInstance(ctx, req.WorkflowID, wf.InstanceStatusCompleted, nil); err != nil {
			return nil, fmt.Errorf("mark instance completed: %w", err)
		}

		e.logger.Info("workflow completed", "workflow_id", req.WorkflowID)
		return &DecisionResult{Status: wf.InstanceStatusCompleted, IsFinal: true}, nil
	}

	if err := e.store.ActivateStep(ctx, req.WorkflowID, order+1); err != nil {
		return nil, fmt.Errorf("activate step %d: %w", order+1, err)
	}
	nextKey := next.Key
	if err := e.store.UpdateInstance(ctx, req.WorkflowID, wf.InstanceStatusInProgress, &nextKey); err != nil {
		return nil, fmt.Errorf("advance instance: %w", err)
	}

	e.logger.Info("workflow step approved",
		"workflow_id", req.WorkflowID,
		"step", step.Key,
		"next_step", next.Key)

	return &DecisionResult{Status: wf.InstanceStatusInProgress, CurrentStep: &nextKey, IsFinal: false}, nil
}

// stepMetadata embeds the step definition as an opaque JSON blob on the step
// row for auditability
func stepMetadata(sd wf.StepDefinition) string {
	raw, err := json.Marshal(map[string]interface{}{
		"key":                 sd.Key,
		"required_permission": sd.RequiredPermission,
		"allowed_roles":       sd.AllowedRoles,
	})
	if err != nil {
		return ""
	}
	return string(raw)
}
