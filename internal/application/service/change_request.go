package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

const pendingStatusPrefix = "pending_"

// ChangeRequestDetails bundles a change request with its approval trail
type ChangeRequestDetails struct {
	Request   *entity.ChangeRequest           `json:"request"`
	Approvals []*entity.ChangeRequestApproval `json:"approvals"`
}

// ChangeRequestService routes supplier profile edits through a fixed 1- or
// 5-step approval pipeline. The chain is selected by which fields changed;
// the final approval applies the sanitized payload to the live supplier
// record through the compile-time field-mapping table.
type ChangeRequestService struct {
	suppliers port.SupplierRepository
	requests  port.ChangeRequestRepository
	txManager port.TransactionManager
	clock     port.Clock
	logger    Logger
}

// NewChangeRequestService creates a new ChangeRequestService
func NewChangeRequestService(
	suppliers port.SupplierRepository,
	requests port.ChangeRequestRepository,
	txManager port.TransactionManager,
	clock port.Clock,
	logger Logger,
) *ChangeRequestService {
	return &ChangeRequestService{
		suppliers: suppliers,
		requests:  requests,
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

// CreateChangeRequest sanitizes the submitted field values, classifies the
// change, derives the risk level, and persists the request awaiting the
// first step of its chain.
func (s *ChangeRequestService) CreateChangeRequest(
	ctx context.Context,
	supplierID int64,
	changes map[string]string,
	submittedBy string,
) (*entity.ChangeRequest, error) {
	supplier, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("load supplier %d: %w", supplierID, err)
	}
	if supplier == nil {
		return nil, badRequest(fmt.Sprintf("supplier %d not found", supplierID))
	}

	if len(changes) == 0 {
		return nil, badRequest("no changes provided")
	}

	sanitized := make(map[string]string, len(changes))
	hasRequired := false
	for key, value := range changes {
		sanitized[key] = html.EscapeString(value)
		if requiredFieldKeys[key] {
			hasRequired = true
		}
	}

	changeType := entity.ChangeTypeProfileUpdateOptional
	if hasRequired {
		changeType = entity.ChangeTypeProfileUpdateRequired
	}

	riskLevel := classifyRisk(sanitized)

	payload, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	steps := stepsForChangeType(changeType)
	firstStep := steps[0].Key
	now := s.clock.Now().UTC()

	cr := &entity.ChangeRequest{
		ID:              uuid.NewString(),
		SupplierID:      supplierID,
		ChangeType:      changeType,
		Status:          pendingStatusPrefix + firstStep,
		CurrentStep:     firstStep,
		Payload:         string(payload),
		SubmittedBy:     submittedBy,
		SubmittedAt:     now,
		UpdatedAt:       now,
		RiskLevel:       riskLevel,
		RequiresQuality: riskLevel == entity.RiskLevelHigh,
	}

	if err := s.requests.Create(ctx, cr); err != nil {
		return nil, fmt.Errorf("create change request: %w", err)
	}

	s.logger.Info("change request created",
		"change_request_id", cr.ID,
		"supplier_id", supplierID,
		"change_type", changeType,
		"risk_level", riskLevel,
		"fields", len(sanitized))

	return cr, nil
}

// ApproveChangeRequest records the acting user's decision on the current
// step. Rejection is terminal; approval advances to the next step or, on the
// final step, applies the payload to the supplier and marks the request
// approved.
func (s *ChangeRequestService) ApproveChangeRequest(
	ctx context.Context,
	changeRequestID string,
	actor wf.Actor,
	decision string,
	comments string,
) (*entity.ChangeRequest, error) {
	cr, err := s.requests.GetByID(ctx, changeRequestID)
	if err != nil {
		return nil, fmt.Errorf("load change request %s: %w", changeRequestID, err)
	}
	if cr == nil {
		return nil, notFound(fmt.Sprintf("change request %s not found", changeRequestID))
	}

	if !strings.HasPrefix(cr.Status, pendingStatusPrefix) {
		return nil, badRequest(fmt.Sprintf("change request %s is not pending (status %s)", cr.ID, cr.Status))
	}

	if actor.UserID != "" && actor.UserID == cr.SubmittedBy {
		return nil, forbidden("access denied: submitter cannot decide own change request")
	}

	stepKey := strings.TrimPrefix(cr.Status, pendingStatusPrefix)
	steps := stepsForChangeType(cr.ChangeType)
	step, order := findStep(steps, stepKey)
	if order == 0 {
		return nil, badRequest(fmt.Sprintf("invalid workflow step %q for change type %s", stepKey, cr.ChangeType))
	}

	if !wf.HasStepPermission(actor, step) {
		return nil, forbidden(fmt.Sprintf("insufficient permission for step %s", stepKey))
	}

	normalized, err := wf.NormalizeDecision(decision)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("invalid decision %q", decision))
	}

	now := s.clock.Now().UTC()
	approval := &entity.ChangeRequestApproval{
		ChangeRequestID: cr.ID,
		StepKey:         stepKey,
		Decision:        normalized,
		DecidedBy:       actor.UserID,
		Comments:        comments,
		DecidedAt:       now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requests.CreateApproval(txCtx, approval); err != nil {
			return fmt.Errorf("record approval: %w", err)
		}

		if normalized == wf.DecisionRejected {
			cr.Status = entity.ChangeRequestStatusRejected
			return s.requests.UpdateStatus(txCtx, cr.ID, cr.Status, stepKey)
		}

		if order < len(steps) {
			next := steps[order].Key
			cr.Status = pendingStatusPrefix + next
			cr.CurrentStep = next
			return s.requests.UpdateStatus(txCtx, cr.ID, cr.Status, next)
		}

		// Final approval: apply the sanitized payload to the live supplier
		if err := s.applyApprovedChanges(txCtx, cr); err != nil {
			return err
		}
		cr.Status = entity.ChangeRequestStatusApproved
		return s.requests.UpdateStatus(txCtx, cr.ID, cr.Status, stepKey)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("change request decided",
		"change_request_id", cr.ID,
		"step", stepKey,
		"decision", normalized,
		"decided_by", actor.UserID,
		"status", cr.Status)

	return cr, nil
}

// GetPendingApprovals lists pending change requests whose current step the
// actor is allowed to decide
func (s *ChangeRequestService) GetPendingApprovals(ctx context.Context, actor wf.Actor, limit, offset int) ([]*entity.ChangeRequest, error) {
	pending, err := s.requests.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending change requests: %w", err)
	}

	actionable := make([]*entity.ChangeRequest, 0, len(pending))
	for _, cr := range pending {
		steps := stepsForChangeType(cr.ChangeType)
		step, order := findStep(steps, cr.CurrentStep)
		if order == 0 {
			continue
		}
		if wf.HasStepPermission(actor, step) {
			actionable = append(actionable, cr)
		}
	}
	return actionable, nil
}

// GetChangeRequestDetails returns a change request with its approval trail
func (s *ChangeRequestService) GetChangeRequestDetails(ctx context.Context, changeRequestID string) (*ChangeRequestDetails, error) {
	cr, err := s.requests.GetByID(ctx, changeRequestID)
	if err != nil {
		return nil, fmt.Errorf("load change request %s: %w", changeRequestID, err)
	}
	if cr == nil {
		return nil, notFound(fmt.Sprintf("change request %s not found", changeRequestID))
	}

	approvals, err := s.requests.ListApprovals(ctx, changeRequestID)
	if err != nil {
		return nil, fmt.Errorf("list approvals for %s: %w", changeRequestID, err)
	}

	return &ChangeRequestDetails{Request: cr, Approvals: approvals}, nil
}

// GetSupplierChangeRequests lists all change requests for a supplier
func (s *ChangeRequestService) GetSupplierChangeRequests(ctx context.Context, supplierID int64) ([]*entity.ChangeRequest, error) {
	requests, err := s.requests.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list change requests for supplier %d: %w", supplierID, err)
	}
	return requests, nil
}

// applyApprovedChanges writes the sanitized payload onto the supplier record
// through the field-mapping table
func (s *ChangeRequestService) applyApprovedChanges(ctx context.Context, cr *entity.ChangeRequest) error {
	supplier, err := s.suppliers.GetByID(ctx, cr.SupplierID)
	if err != nil {
		return fmt.Errorf("load supplier %d: %w", cr.SupplierID, err)
	}
	if supplier == nil {
		return badRequest(fmt.Sprintf("supplier %d not found", cr.SupplierID))
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(cr.Payload), &payload); err != nil {
		return fmt.Errorf("decode payload of change request %s: %w", cr.ID, err)
	}

	applied := applySupplierFields(supplier, payload)
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return fmt.Errorf("update supplier %d: %w", cr.SupplierID, err)
	}

	s.logger.Info("approved changes applied",
		"change_request_id", cr.ID,
		"supplier_id", cr.SupplierID,
		"fields_applied", applied)

	return nil
}

// classifyRisk derives the coarse risk level from which fields changed and
// how many. Derived once at creation, never recalculated.
func classifyRisk(changes map[string]string) string {
	for key := range changes {
		if highRiskFieldKeys[key] {
			return entity.RiskLevelHigh
		}
	}
	if len(changes) >= 5 {
		return entity.RiskLevelMedium
	}
	return entity.RiskLevelLow
}

// stepsForChangeType selects the approval chain for a change type
func stepsForChangeType(changeType string) []wf.StepDefinition {
	if changeType == entity.ChangeTypeProfileUpdateRequired {
		return wf.ChangeRequestRequiredSteps
	}
	return wf.ChangeRequestOptionalSteps
}

// findStep returns the step definition and its 1-based order, or order 0 if
// the key is not part of the chain
func findStep(steps []wf.StepDefinition, key string) (wf.StepDefinition, int) {
	for i, s := range steps {
		if s.Key == key {
			return s, i + 1
		}
	}
	return wf.StepDefinition{}, 0
}
