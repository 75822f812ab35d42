package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
	wf "github.com/vendorlink/supplierflow/internal/domain/workflow"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testClock = fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

// passthroughTx runs the function without a real transaction
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSupplierRepo struct {
	suppliers map[int64]*entity.Supplier
	updated   *entity.Supplier
	statuses  map[int64]string
}

func newFakeSupplierRepo(suppliers ...*entity.Supplier) *fakeSupplierRepo {
	repo := &fakeSupplierRepo{
		suppliers: make(map[int64]*entity.Supplier),
		statuses:  make(map[int64]string),
	}
	for _, s := range suppliers {
		repo.suppliers[s.ID] = s
	}
	return repo
}

func (f *fakeSupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	s.ID = int64(len(f.suppliers) + 1)
	f.suppliers[s.ID] = s
	return nil
}

func (f *fakeSupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	return f.suppliers[id], nil
}

func (f *fakeSupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	f.updated = s
	f.suppliers[s.ID] = s
	return nil
}

func (f *fakeSupplierRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.statuses[id] = status
	if s, ok := f.suppliers[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeSupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

type fakeChangeRequestRepo struct {
	requests  map[string]*entity.ChangeRequest
	approvals []*entity.ChangeRequestApproval
}

func newFakeChangeRequestRepo() *fakeChangeRequestRepo {
	return &fakeChangeRequestRepo{requests: make(map[string]*entity.ChangeRequest)}
}

func (f *fakeChangeRequestRepo) Create(ctx context.Context, cr *entity.ChangeRequest) error {
	f.requests[cr.ID] = cr
	return nil
}

func (f *fakeChangeRequestRepo) GetByID(ctx context.Context, id string) (*entity.ChangeRequest, error) {
	return f.requests[id], nil
}

func (f *fakeChangeRequestRepo) UpdateStatus(ctx context.Context, id string, status, currentStep string) error {
	cr := f.requests[id]
	cr.Status = status
	cr.CurrentStep = currentStep
	return nil
}

func (f *fakeChangeRequestRepo) ListBySupplier(ctx context.Context, supplierID int64) ([]*entity.ChangeRequest, error) {
	var out []*entity.ChangeRequest
	for _, cr := range f.requests {
		if cr.SupplierID == supplierID {
			out = append(out, cr)
		}
	}
	return out, nil
}

func (f *fakeChangeRequestRepo) ListPending(ctx context.Context, limit, offset int) ([]*entity.ChangeRequest, error) {
	var out []*entity.ChangeRequest
	for _, cr := range f.requests {
		if len(cr.Status) > len(pendingStatusPrefix) && cr.Status[:len(pendingStatusPrefix)] == pendingStatusPrefix {
			out = append(out, cr)
		}
	}
	return out, nil
}

func (f *fakeChangeRequestRepo) CreateApproval(ctx context.Context, a *entity.ChangeRequestApproval) error {
	a.ID = int64(len(f.approvals) + 1)
	f.approvals = append(f.approvals, a)
	return nil
}

func (f *fakeChangeRequestRepo) ListApprovals(ctx context.Context, changeRequestID string) ([]*entity.ChangeRequestApproval, error) {
	var out []*entity.ChangeRequestApproval
	for _, a := range f.approvals {
		if a.ChangeRequestID == changeRequestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestService(suppliers *fakeSupplierRepo, requests *fakeChangeRequestRepo) *ChangeRequestService {
	return NewChangeRequestService(suppliers, requests, passthroughTx{}, testClock, nopLogger{})
}

func testSupplier() *entity.Supplier {
	return &entity.Supplier{
		ID:          10,
		CompanyName: "Acme Industrial",
		Status:      entity.SupplierStatusQualified,
	}
}

func actorFor(step string) wf.Actor {
	return wf.Actor{UserID: "approver-" + step, Role: step}
}

func TestCreateChangeRequestRequired(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{
		"bankName": "New Bank",
		"website":  "https://acme.example",
	}, "editor-1")
	require.NoError(t, err)

	assert.Equal(t, entity.ChangeTypeProfileUpdateRequired, cr.ChangeType)
	assert.Equal(t, "pending_purchaser", cr.Status)
	assert.Equal(t, "purchaser", cr.CurrentStep)
	assert.Equal(t, entity.RiskLevelLow, cr.RiskLevel)
	assert.False(t, cr.RequiresQuality)
	assert.Equal(t, "editor-1", cr.SubmittedBy)
	assert.Equal(t, testClock.t, cr.SubmittedAt)
}

func TestCreateChangeRequestOptional(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	svc := newTestService(suppliers, newFakeChangeRequestRepo())

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{
		"website": "https://acme.example",
		"notes":   "prefers email contact",
	}, "editor-1")
	require.NoError(t, err)

	assert.Equal(t, entity.ChangeTypeProfileUpdateOptional, cr.ChangeType)
	assert.Equal(t, "pending_purchaser", cr.Status)
}

func TestCreateChangeRequestSanitizesValues(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	svc := newTestService(suppliers, newFakeChangeRequestRepo())

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{
		"notes": `<script>alert("x") & 'y'</script>`,
	}, "editor-1")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(cr.Payload), &payload))
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;) &amp; &#39;y&#39;&lt;/script&gt;", payload["notes"])
}

func TestCreateChangeRequestRiskLevels(t *testing.T) {
	tests := []struct {
		name    string
		changes map[string]string
		want    string
		quality bool
	}{
		{
			name:    "high when bank account changes",
			changes: map[string]string{"bankAccount": "123"},
			want:    entity.RiskLevelHigh,
			quality: true,
		},
		{
			name:    "high when company name changes",
			changes: map[string]string{"companyName": "Acme 2"},
			want:    entity.RiskLevelHigh,
			quality: true,
		},
		{
			name: "medium when five fields change",
			changes: map[string]string{
				"bankName": "a", "taxNumber": "b", "contactPerson": "c",
				"contactPhone": "d", "contactEmail": "e",
			},
			want: entity.RiskLevelMedium,
		},
		{
			name:    "low otherwise",
			changes: map[string]string{"website": "w"},
			want:    entity.RiskLevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suppliers := newFakeSupplierRepo(testSupplier())
			svc := newTestService(suppliers, newFakeChangeRequestRepo())

			cr, err := svc.CreateChangeRequest(context.Background(), 10, tt.changes, "editor-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cr.RiskLevel)
			assert.Equal(t, tt.quality, cr.RequiresQuality)
		})
	}
}

func TestCreateChangeRequestValidation(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	svc := newTestService(suppliers, newFakeChangeRequestRepo())

	_, err := svc.CreateChangeRequest(context.Background(), 99, map[string]string{"notes": "x"}, "editor-1")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)

	_, err = svc.CreateChangeRequest(context.Background(), 10, nil, "editor-1")
	se, ok = AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestApproveChangeRequestFullChain(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{
		"bankAccount": "6222-0001",
		"bankName":    "New Bank",
	}, "editor-1")
	require.NoError(t, err)

	chain := []string{"purchaser", "quality_manager", "procurement_manager", "procurement_director", "finance_director"}
	for i, step := range chain {
		got, err := svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor(step), "approved", "ok")
		require.NoError(t, err, step)

		if i < len(chain)-1 {
			assert.Equal(t, pendingStatusPrefix+chain[i+1], got.Status)
		} else {
			assert.Equal(t, entity.ChangeRequestStatusApproved, got.Status)
		}
	}

	// Final approval applied the payload to the live supplier
	require.NotNil(t, suppliers.updated)
	assert.Equal(t, "6222-0001", suppliers.updated.BankAccount)
	assert.Equal(t, "New Bank", suppliers.updated.BankName)

	require.Len(t, requests.approvals, 5)
	assert.Equal(t, "purchaser", requests.approvals[0].StepKey)
	assert.Equal(t, "finance_director", requests.approvals[4].StepKey)
}

func TestApproveChangeRequestOptionalSingleStep(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"website": "https://new.example"}, "editor-1")
	require.NoError(t, err)

	got, err := svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor("purchaser"), "approved", "")
	require.NoError(t, err)

	assert.Equal(t, entity.ChangeRequestStatusApproved, got.Status)
	require.NotNil(t, suppliers.updated)
	assert.Equal(t, "https://new.example", suppliers.updated.Website)
}

func TestRejectChangeRequestIsTerminal(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"bankName": "b"}, "editor-1")
	require.NoError(t, err)

	got, err := svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor("purchaser"), "rejected", "insufficient docs")
	require.NoError(t, err)
	assert.Equal(t, entity.ChangeRequestStatusRejected, got.Status)

	// No supplier mutation on rejection
	assert.Nil(t, suppliers.updated)

	// A decided request takes no further decisions
	_, err = svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor("quality_manager"), "approved", "")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestApproveChangeRequestAuthorization(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	svc := newTestService(suppliers, newFakeChangeRequestRepo())

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"bankName": "b"}, "editor-1")
	require.NoError(t, err)

	t.Run("submitter cannot decide", func(t *testing.T) {
		_, err := svc.ApproveChangeRequest(context.Background(), cr.ID,
			wf.Actor{UserID: "editor-1", Role: "purchaser"}, "approved", "")
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
	})

	t.Run("wrong role and no permission", func(t *testing.T) {
		_, err := svc.ApproveChangeRequest(context.Background(), cr.ID,
			wf.Actor{UserID: "u2", Role: "finance_director"}, "approved", "")
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
	})

	t.Run("permission grant works without role", func(t *testing.T) {
		_, err := svc.ApproveChangeRequest(context.Background(), cr.ID,
			wf.Actor{UserID: "u3", Permissions: []string{"change_request:purchaser"}}, "approved", "")
		require.NoError(t, err)
	})
}

func TestApproveChangeRequestNotFound(t *testing.T) {
	svc := newTestService(newFakeSupplierRepo(testSupplier()), newFakeChangeRequestRepo())

	_, err := svc.ApproveChangeRequest(context.Background(), "missing", actorFor("purchaser"), "approved", "")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestApproveChangeRequestInvalidDecision(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	svc := newTestService(suppliers, newFakeChangeRequestRepo())

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"bankName": "b"}, "editor-1")
	require.NoError(t, err)

	_, err = svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor("purchaser"), "maybe", "")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestGetPendingApprovalsFiltersByPermission(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	// One request awaiting the purchaser, one advanced to the quality manager
	first, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"bankName": "b"}, "editor-1")
	require.NoError(t, err)
	second, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"taxNumber": "t"}, "editor-1")
	require.NoError(t, err)
	_, err = svc.ApproveChangeRequest(context.Background(), second.ID, actorFor("purchaser"), "approved", "")
	require.NoError(t, err)

	pending, err := svc.GetPendingApprovals(context.Background(), actorFor("purchaser"), 20, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	pending, err = svc.GetPendingApprovals(context.Background(), actorFor("quality_manager"), 20, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestGetChangeRequestDetails(t *testing.T) {
	suppliers := newFakeSupplierRepo(testSupplier())
	requests := newFakeChangeRequestRepo()
	svc := newTestService(suppliers, requests)

	cr, err := svc.CreateChangeRequest(context.Background(), 10, map[string]string{"bankName": "b"}, "editor-1")
	require.NoError(t, err)
	_, err = svc.ApproveChangeRequest(context.Background(), cr.ID, actorFor("purchaser"), "approved", "fine")
	require.NoError(t, err)

	details, err := svc.GetChangeRequestDetails(context.Background(), cr.ID)
	require.NoError(t, err)
	assert.Equal(t, cr.ID, details.Request.ID)
	require.Len(t, details.Approvals, 1)
	assert.Equal(t, "purchaser", details.Approvals[0].StepKey)
	assert.Equal(t, "fine", details.Approvals[0].Comments)
}
