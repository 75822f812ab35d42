package service

import (
	"context"
	"fmt"

	"github.com/vendorlink/supplierflow/internal/application/port"
	appwf "github.com/vendorlink/supplierflow/internal/application/workflow"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

// UpgradeWorkflowDetails bundles a workflow instance with its step rows
type UpgradeWorkflowDetails struct {
	Instance *entity.WorkflowInstance `json:"instance"`
	Steps    []*entity.WorkflowStep   `json:"steps"`
}

// SupplierService manages supplier registration and the temporary-supplier
// upgrade workflow. It gates workflow decisions by step permission before
// delegating progression to the generic engine, which trusts its caller.
type SupplierService struct {
	suppliers port.SupplierRepository
	store     port.WorkflowStore
	engine    *appwf.Engine
	txManager port.TransactionManager
	logger    Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	suppliers port.SupplierRepository,
	store port.WorkflowStore,
	engine *appwf.Engine,
	txManager port.TransactionManager,
	logger Logger,
) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		store:     store,
		engine:    engine,
		txManager: txManager,
		logger:    logger,
	}
}

// Register persists a new supplier in temporary status
func (s *SupplierService) Register(ctx context.Context, supplier *entity.Supplier) error {
	if supplier.CompanyName == "" {
		return badRequest("company name is required")
	}
	supplier.Status = entity.SupplierStatusTemporary

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	s.logger.Info("supplier registered",
		"supplier_id", supplier.ID,
		"company_name", supplier.CompanyName)
	return nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*entity.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load supplier %d: %w", id, err)
	}
	if supplier == nil {
		return nil, notFound(fmt.Sprintf("supplier %d not found", id))
	}
	return supplier, nil
}

// StartUpgrade opens the upgrade workflow for a temporary supplier and moves
// the supplier into upgrading status
func (s *SupplierService) StartUpgrade(ctx context.Context, supplierID int64, actor wf.Actor) (*entity.WorkflowInstance, error) {
	supplier, err := s.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Status != entity.SupplierStatusTemporary {
		return nil, badRequest(fmt.Sprintf("supplier %d is not temporary (status %s)", supplierID, supplier.Status))
	}

	instance, err := s.engine.Start(ctx, &wf.SupplierUpgradeDefinition, appwf.StartRequest{
		EntityType: entity.EntityTypeSupplier,
		EntityID:   supplierID,
		CreatedBy:  actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.suppliers.UpdateStatus(ctx, supplierID, entity.SupplierStatusUpgrading); err != nil {
		return nil, fmt.Errorf("mark supplier upgrading: %w", err)
	}

	return instance, nil
}

// DecideUpgrade verifies the actor may decide the instance's current step,
// then applies the decision through the engine. A completed workflow
// qualifies the supplier; a rejected one returns it to temporary status.
func (s *SupplierService) DecideUpgrade(
	ctx context.Context,
	workflowID string,
	actor wf.Actor,
	decision string,
	comments string,
) (*appwf.DecisionResult, error) {
	instance, err := s.store.GetInstance(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", workflowID, err)
	}
	if instance == nil {
		return nil, notFound(fmt.Sprintf("workflow %s not found", workflowID))
	}
	if instance.Status != wf.InstanceStatusInProgress || instance.CurrentStep == nil {
		return nil, badRequest(fmt.Sprintf("workflow %s is not in progress", workflowID))
	}

	step, ok := wf.SupplierUpgradeDefinition.StepByKey(*instance.CurrentStep)
	if !ok {
		return nil, badRequest(fmt.Sprintf("invalid workflow step %q", *instance.CurrentStep))
	}
	if !wf.HasStepPermission(actor, step) {
		return nil, forbidden(fmt.Sprintf("insufficient permission for step %s", step.Key))
	}

	result, err := s.engine.ApplyDecision(ctx, &wf.SupplierUpgradeDefinition, appwf.DecisionRequest{
		WorkflowID: workflowID,
		StepKey:    step.Key,
		Decision:   decision,
		Comments:   comments,
	})
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case wf.InstanceStatusCompleted:
		if err := s.suppliers.UpdateStatus(ctx, instance.EntityID, entity.SupplierStatusQualified); err != nil {
			return nil, fmt.Errorf("qualify supplier %d: %w", instance.EntityID, err)
		}
		s.logger.Info("supplier qualified", "supplier_id", instance.EntityID, "workflow_id", workflowID)
	case wf.InstanceStatusRejected:
		if err := s.suppliers.UpdateStatus(ctx, instance.EntityID, entity.SupplierStatusTemporary); err != nil {
			return nil, fmt.Errorf("revert supplier %d: %w", instance.EntityID, err)
		}
		s.logger.Info("supplier upgrade rejected", "supplier_id", instance.EntityID, "workflow_id", workflowID)
	}

	return result, nil
}

// GetUpgradeWorkflow returns a workflow instance with its step rows
func (s *SupplierService) GetUpgradeWorkflow(ctx context.Context, workflowID string) (*UpgradeWorkflowDetails, error) {
	instance, err := s.store.GetInstance(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", workflowID, err)
	}
	if instance == nil {
		return nil, notFound(fmt.Sprintf("workflow %s not found", workflowID))
	}

	steps, err := s.store.GetSteps(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("load steps for %s: %w", workflowID, err)
	}

	return &UpgradeWorkflowDetails{Instance: instance, Steps: steps}, nil
}
