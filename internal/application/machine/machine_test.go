package machine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/domain/status"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testClock = fixedClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

// fakeHistoryRepo is an in-memory history store with an optional injected
// write failure
type fakeHistoryRepo struct {
	rows      []*entity.StatusHistory
	createErr error
	listErr   error
}

func (f *fakeHistoryRepo) Create(ctx context.Context, h *entity.StatusHistory) error {
	if f.createErr != nil {
		return f.createErr
	}
	h.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, h)
	return nil
}

func (f *fakeHistoryRepo) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusHistory, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.StatusHistory
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].EntityType == entityType && f.rows[i].EntityID == entityID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// fakeEntity is the minimal entity driven by the generic machine in tests
type fakeEntity struct {
	id     int64
	status string
}

type fakeAdapter struct {
	transitions status.TransitionMap
	beforeErr   error
	afterErr    error
	saveErr     error
	saved       int
	afterCalls  int
}

func (a *fakeAdapter) EntityType() string                { return "widget" }
func (a *fakeAdapter) Transitions() status.TransitionMap { return a.transitions }
func (a *fakeAdapter) ID(e *fakeEntity) int64            { return e.id }
func (a *fakeAdapter) Status(e *fakeEntity) string       { return e.status }
func (a *fakeAdapter) SetStatus(e *fakeEntity, s string) { e.status = s }

func (a *fakeAdapter) BeforeTransition(ctx context.Context, e *fakeEntity, oldStatus, newStatus, actor, reason string) error {
	return a.beforeErr
}

func (a *fakeAdapter) AfterTransition(ctx context.Context, e *fakeEntity, oldStatus, newStatus, actor, reason string) error {
	a.afterCalls++
	return a.afterErr
}

func (a *fakeAdapter) Save(ctx context.Context, e *fakeEntity) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	a.saved++
	return nil
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		transitions: status.TransitionMap{
			"draft":  {"active"},
			"active": {"done"},
			"done":   {},
		},
	}
}

func TestTransitionSuccess(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 7, status: "draft"}
	err := m.Transition(context.Background(), e, "active", "alice", "kickoff")
	require.NoError(t, err)

	assert.Equal(t, "active", e.status)
	assert.Equal(t, 1, adapter.saved)
	assert.Equal(t, 1, adapter.afterCalls)

	// Exactly one history row, fully populated
	require.Len(t, history.rows, 1)
	row := history.rows[0]
	assert.Equal(t, "widget", row.EntityType)
	assert.Equal(t, int64(7), row.EntityID)
	require.NotNil(t, row.FromStatus)
	assert.Equal(t, "draft", *row.FromStatus)
	assert.Equal(t, "active", row.ToStatus)
	require.NotNil(t, row.ChangedBy)
	assert.Equal(t, "alice", *row.ChangedBy)
	require.NotNil(t, row.Reason)
	assert.Equal(t, "kickoff", *row.Reason)
	assert.Equal(t, testClock.t, row.ChangedAt)
}

func TestTransitionInvalid(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 1, status: "draft"}
	err := m.Transition(context.Background(), e, "done", "alice", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidTransition))

	// Nothing happened
	assert.Equal(t, "draft", e.status)
	assert.Zero(t, adapter.saved)
	assert.Empty(t, history.rows)
}

func TestFirstTransitionAcceptsAnyKnownStatus(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 2}
	require.NoError(t, m.Transition(context.Background(), e, "done", "", ""))
	assert.Equal(t, "done", e.status)

	// From status is absent on the first transition's history row
	require.Len(t, history.rows, 1)
	assert.Nil(t, history.rows[0].FromStatus)
	assert.Nil(t, history.rows[0].ChangedBy)
}

func TestFirstTransitionRejectsUnknownStatus(t *testing.T) {
	adapter := newFakeAdapter()
	m := New[*fakeEntity](adapter, &fakeHistoryRepo{}, testClock, nopLogger{})

	e := &fakeEntity{id: 3}
	err := m.Transition(context.Background(), e, "bogus", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownStatus))
	assert.Empty(t, e.status)
}

func TestBeforeHookAbortsEverything(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.beforeErr = errors.New("precondition boom")
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 4, status: "draft"}
	err := m.Transition(context.Background(), e, "active", "alice", "")
	require.Error(t, err)

	assert.Equal(t, "draft", e.status)
	assert.Zero(t, adapter.saved)
	assert.Zero(t, adapter.afterCalls)
	assert.Empty(t, history.rows)
}

func TestSaveFailurePropagates(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.saveErr = errors.New("db down")
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 5, status: "draft"}
	err := m.Transition(context.Background(), e, "active", "alice", "")
	require.Error(t, err)
	assert.Empty(t, history.rows)
}

func TestHistoryWriteFailureBestEffort(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{createErr: errors.New("history down")}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 6, status: "draft"}
	// Default policy: the transition sticks even though the audit row is lost
	require.NoError(t, m.Transition(context.Background(), e, "active", "alice", ""))
	assert.Equal(t, "active", e.status)
	assert.Equal(t, 1, adapter.afterCalls)
}

func TestHistoryWriteFailureFailFast(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{createErr: errors.New("history down")}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{},
		WithHistoryPolicy[*fakeEntity](FailFastHistory))

	e := &fakeEntity{id: 6, status: "draft"}
	err := m.Transition(context.Background(), e, "active", "alice", "")
	require.Error(t, err)

	// The status change was already persisted; only the error surfaces
	assert.Equal(t, "active", e.status)
	assert.Zero(t, adapter.afterCalls)
}

func TestAfterHookErrorIsSwallowed(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.afterErr = errors.New("notify failed")
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 8, status: "draft"}
	require.NoError(t, m.Transition(context.Background(), e, "active", "alice", ""))
	require.Len(t, history.rows, 1)
}

func TestHistoryReadBestEffort(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{listErr: errors.New("read failed")}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	rows := m.History(context.Background(), 1)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestHistoryNewestFirst(t *testing.T) {
	adapter := newFakeAdapter()
	history := &fakeHistoryRepo{}
	m := New[*fakeEntity](adapter, history, testClock, nopLogger{})

	e := &fakeEntity{id: 9, status: "draft"}
	require.NoError(t, m.Transition(context.Background(), e, "active", "a", ""))
	require.NoError(t, m.Transition(context.Background(), e, "done", "b", ""))

	rows := m.History(context.Background(), 9)
	require.Len(t, rows, 2)
	assert.Equal(t, "done", rows[0].ToStatus)
	assert.Equal(t, "active", rows[1].ToStatus)
}
