package status

import "errors"

var (
	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the entity's current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionFailed is returned when an entity-specific business
	// rule rejects an otherwise legal transition
	ErrPreconditionFailed = errors.New("transition precondition failed")

	// ErrUnknownStatus is returned when a status does not appear as a key
	// of the transition map
	ErrUnknownStatus = errors.New("unknown status")
)
