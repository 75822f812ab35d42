package entity

import "time"

// StatusHistory is an append-only audit record of a status transition.
// FromStatus is nil on the first-ever transition of an entity; ChangedBy is
// nil for system-initiated transitions. Rows are never updated or deleted.
type StatusHistory struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  *string   `json:"changed_by,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
	Reason     *string   `json:"reason,omitempty"`
}
