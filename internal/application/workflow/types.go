package workflow

import "time"

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// StartRequest starts a new workflow instance against a business entity
type StartRequest struct {
	EntityType string
	EntityID   int64
	CreatedBy  string
}

// DecisionRequest submits a decision for the current step of an instance.
// DecidedAt may be zero, in which case the engine's clock is used.
type DecisionRequest struct {
	WorkflowID string
	StepKey    string
	Decision   string
	Comments   string
	DecidedAt  time.Time
}

// DecisionResult describes the instance after a decision was applied
type DecisionResult struct {
	Status      string  `json:"status"`
	CurrentStep *string `json:"current_step,omitempty"`
	IsFinal     bool    `json:"is_final"`
}
