package workflow

import (
	"fmt"
	"strings"
)

// Actor is the acting user as seen by the approval core. The HTTP layer is
// responsible for authenticating the user; this core only consumes the
// resolved role and permission set.
type Actor struct {
	UserID      string
	Role        string
	Permissions []string
}

// HasPermission reports whether the actor holds an explicit permission grant
func (a Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasStepPermission reports whether the actor may decide the given step:
// either the step's required permission is granted or the actor's role is in
// the step's allowed roles.
func HasStepPermission(actor Actor, step StepDefinition) bool {
	if step.RequiredPermission != "" && actor.HasPermission(step.RequiredPermission) {
		return true
	}
	for _, role := range step.AllowedRoles {
		if role == actor.Role {
			return true
		}
	}
	return false
}

// NormalizeDecision folds a raw decision value to DecisionApproved or
// DecisionRejected. Accepts approve/reject aliases, case-insensitive.
func NormalizeDecision(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved", "approve":
		return DecisionApproved, nil
	case "rejected", "reject":
		return DecisionRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDecision, raw)
	}
}
