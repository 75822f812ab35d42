package workflow

import "errors"

var (
	// ErrUnknownStep is returned when a decision references a step that is
	// not part of the workflow definition
	ErrUnknownStep = errors.New("unknown workflow step")

	// ErrInvalidDecision is returned when a decision value cannot be
	// normalized to approved or rejected
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrEmptyDefinition is returned when a workflow definition has no steps
	ErrEmptyDefinition = errors.New("workflow definition has no steps")
)
