package entity

import "time"

// WorkflowInstance is one running occurrence of a workflow definition
// against one business entity.
type WorkflowInstance struct {
	ID           string    `json:"id"`
	WorkflowType string    `json:"workflow_type"`
	EntityType   string    `json:"entity_type"`
	EntityID     int64     `json:"entity_id"`
	Status       string    `json:"status"`
	CurrentStep  *string   `json:"current_step,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkflowStep is one approval stage within a workflow instance. Assignee
// holds the permission key that gates the step; Metadata embeds the step
// definition as an opaque JSON blob for auditability.
type WorkflowStep struct {
	ID          string     `json:"id"`
	WorkflowID  string     `json:"workflow_id"`
	StepOrder   int        `json:"step_order"`
	Name        string     `json:"name"`
	Assignee    string     `json:"assignee"`
	Status      string     `json:"status"`
	Metadata    string     `json:"metadata,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}
