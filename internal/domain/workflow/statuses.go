package workflow

// Workflow instance status constants
const (
	InstanceStatusInProgress = "in_progress"
	InstanceStatusCompleted  = "completed"
	InstanceStatusRejected   = "rejected"
	InstanceStatusCancelled  = "cancelled"
)

// Workflow step status constants. Exactly one step is ever pending at a time
// while the instance is in progress.
const (
	StepStatusPending   = "pending"
	StepStatusWaiting   = "waiting"
	StepStatusCompleted = "completed"
	StepStatusRejected  = "rejected"
	StepStatusCancelled = "cancelled"
)

// Decision constants
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)
