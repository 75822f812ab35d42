package entity

import "time"

// ChangeRequest is a supplier-profile-edit proposal routed through a fixed
// 1- or 5-step approval pipeline before being applied. Payload is a sanitized
// field-name -> new-value map serialized as JSON. RiskLevel is derived once
// at creation and never recalculated.
type ChangeRequest struct {
	ID              string    `json:"id"`
	SupplierID      int64     `json:"supplier_id"`
	ChangeType      string    `json:"change_type"`
	Status          string    `json:"status"`
	CurrentStep     string    `json:"current_step"`
	Payload         string    `json:"payload"`
	SubmittedBy     string    `json:"submitted_by"`
	SubmittedAt     time.Time `json:"submitted_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	RiskLevel       string    `json:"risk_level"`
	RequiresQuality bool      `json:"requires_quality"`
}

// ChangeRequestApproval records one decision taken on a change request step.
type ChangeRequestApproval struct {
	ID              int64     `json:"id"`
	ChangeRequestID string    `json:"change_request_id"`
	StepKey         string    `json:"step_key"`
	Decision        string    `json:"decision"`
	DecidedBy       string    `json:"decided_by"`
	Comments        string    `json:"comments,omitempty"`
	DecidedAt       time.Time `json:"decided_at"`
}
