package machine

import (
	"context"
	"fmt"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Adapter binds the generic machine to one entity type: transition table,
// status accessors, entity-specific pre/post hooks, and persistence of the
// owning entity.
type Adapter[E any] interface {
	// EntityType returns the entity type name recorded in history rows
	EntityType() string

	// Transitions returns the compile-time transition table
	Transitions() status.TransitionMap

	// ID returns the entity's identifier
	ID(e E) int64

	// Status returns the entity's current status; empty means the entity
	// has never transitioned
	Status(e E) string

	// SetStatus mutates the entity's status field
	SetStatus(e E, s string)

	// BeforeTransition enforces entity-specific preconditions. An error
	// aborts the whole transition; nothing is persisted.
	BeforeTransition(ctx context.Context, e E, oldStatus, newStatus, actor, reason string) error

	// AfterTransition runs entity-specific side effects after the status
	// change has been persisted. Errors are logged, never propagated.
	AfterTransition(ctx context.Context, e E, oldStatus, newStatus, actor, reason string) error

	// Save persists the entity's new status via the owning repository
	Save(ctx context.Context, e E) error
}

// HistoryPolicy controls how a failed history write is handled
type HistoryPolicy int

const (
	// BestEffortHistory logs a failed history write and keeps the already
	// persisted status change (the default)
	BestEffortHistory HistoryPolicy = iota

	// FailFastHistory surfaces a failed history write to the caller
	FailFastHistory
)

// Machine validates and applies status transitions for a single entity type
type Machine[E any] struct {
	adapter Adapter[E]
	history port.HistoryRepository
	clock   port.Clock
	logger  Logger
	policy  HistoryPolicy
}

// Option configures a Machine
type Option[E any] func(*Machine[E])

// WithHistoryPolicy overrides the history-write failure policy
func WithHistoryPolicy[E any](p HistoryPolicy) Option[E] {
	return func(m *Machine[E]) {
		m.policy = p
	}
}

// New creates a machine for the given adapter
func New[E any](
	adapter Adapter[E],
	history port.HistoryRepository,
	clock port.Clock,
	logger Logger,
	opts ...Option[E],
) *Machine[E] {
	m := &Machine[E]{
		adapter: adapter,
		history: history,
		clock:   clock,
		logger:  logger,
		policy:  BestEffortHistory,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Transition validates the requested status change against the transition
// table, runs the before hook, persists the entity, then appends a history
// row and runs the after hook. Actor may be empty for system-initiated
// transitions; reason is free text.
func (m *Machine[E]) Transition(ctx context.Context, e E, newStatus, actor, reason string) error {
	transitions := m.adapter.Transitions()
	oldStatus := m.adapter.Status(e)

	if oldStatus == "" {
		// First-ever transition: any status present as a table key is accepted
		if !transitions.HasStatus(newStatus) {
			return fmt.Errorf("%w: %q is not a %s status", status.ErrUnknownStatus, newStatus, m.adapter.EntityType())
		}
	} else if !transitions.CanTransition(oldStatus, newStatus) {
		return fmt.Errorf("%w: %s %d cannot go from %q to %q",
			status.ErrInvalidTransition, m.adapter.EntityType(), m.adapter.ID(e), oldStatus, newStatus)
	}

	if err := m.adapter.BeforeTransition(ctx, e, oldStatus, newStatus, actor, reason); err != nil {
		return err
	}

	m.adapter.SetStatus(e, newStatus)
	if err := m.adapter.Save(ctx, e); err != nil {
		return fmt.Errorf("persist %s %d: %w", m.adapter.EntityType(), m.adapter.ID(e), err)
	}

	if err := m.recordHistory(ctx, e, oldStatus, newStatus, actor, reason); err != nil {
		return err
	}

	if err := m.adapter.AfterTransition(ctx, e, oldStatus, newStatus, actor, reason); err != nil {
		m.logger.Error("after-transition hook failed",
			"entity_type", m.adapter.EntityType(),
			"entity_id", m.adapter.ID(e),
			"error", err)
	}

	return nil
}

// recordHistory appends the audit row for a committed transition. A write
// failure does not roll back the status change unless FailFastHistory is set.
func (m *Machine[E]) recordHistory(ctx context.Context, e E, oldStatus, newStatus, actor, reason string) error {
	row := &entity.StatusHistory{
		EntityType: m.adapter.EntityType(),
		EntityID:   m.adapter.ID(e),
		ToStatus:   newStatus,
		ChangedAt:  m.clock.Now().UTC(),
	}
	if oldStatus != "" {
		row.FromStatus = &oldStatus
	}
	if actor != "" {
		row.ChangedBy = &actor
	}
	if reason != "" {
		row.Reason = &reason
	}

	if err := m.history.Create(ctx, row); err != nil {
		if m.policy == FailFastHistory {
			return fmt.Errorf("write status history for %s %d: %w", m.adapter.EntityType(), m.adapter.ID(e), err)
		}
		m.logger.Error("failed to write status history",
			"entity_type", m.adapter.EntityType(),
			"entity_id", m.adapter.ID(e),
			"to_status", newStatus,
			"error", err)
	}
	return nil
}

// History returns the entity's transition history, most recent first.
// Reads are best-effort: a persistence failure yields an empty slice.
func (m *Machine[E]) History(ctx context.Context, entityID int64) []*entity.StatusHistory {
	rows, err := m.history.ListByEntity(ctx, m.adapter.EntityType(), entityID)
	if err != nil {
		m.logger.Error("failed to read status history",
			"entity_type", m.adapter.EntityType(),
			"entity_id", entityID,
			"error", err)
		return []*entity.StatusHistory{}
	}
	return rows
}
