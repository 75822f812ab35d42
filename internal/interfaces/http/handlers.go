package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorlink/supplierflow/internal/application/service"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	statusService        *service.StatusService
	supplierService      *service.SupplierService
	changeRequestService *service.ChangeRequestService
	logger               Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	statusService *service.StatusService,
	supplierService *service.SupplierService,
	changeRequestService *service.ChangeRequestService,
	logger Logger,
) *Handlers {
	return &Handlers{
		statusService:        statusService,
		supplierService:      supplierService,
		changeRequestService: changeRequestService,
		logger:               logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// TransitionRequest is the body for status transition endpoints
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// DecisionRequest is the body for workflow and change request decisions
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

// CreateRfqRequest is the body for creating an RFQ
type CreateRfqRequest struct {
	Title        string     `json:"title" binding:"required"`
	ValidUntil   *time.Time `json:"valid_until"`
	LineItemMode bool       `json:"line_item_mode"`
}

// CreateQuoteRequest is the body for creating a quote
type CreateQuoteRequest struct {
	RfqID       int64    `json:"rfq_id" binding:"required"`
	SupplierID  int64    `json:"supplier_id" binding:"required"`
	TotalAmount *float64 `json:"total_amount"`
	Currency    string   `json:"currency"`
	Remarks     string   `json:"remarks"`
}

// CreateReconciliationRequest is the body for creating a reconciliation
type CreateReconciliationRequest struct {
	SupplierID      int64   `json:"supplier_id" binding:"required"`
	Period          string  `json:"period" binding:"required"`
	StatementAmount float64 `json:"statement_amount"`
}

// CreateChangeRequestRequest is the body for submitting a profile change
type CreateChangeRequestRequest struct {
	SupplierID int64             `json:"supplier_id" binding:"required"`
	Changes    map[string]string `json:"changes" binding:"required"`
}

// ListPendingRequest represents query parameters for the pending queue
type ListPendingRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateRfq handles POST /api/v1/rfqs
func (h *Handlers) CreateRfq(c *gin.Context) {
	var req CreateRfqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rfq := &entity.Rfq{
		Title:        req.Title,
		ValidUntil:   req.ValidUntil,
		LineItemMode: req.LineItemMode,
		CreatedBy:    actorFromContext(c).UserID,
	}
	if err := h.statusService.CreateRfq(c.Request.Context(), rfq); err != nil {
		h.serviceError(c, err, "failed to create rfq")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: rfq})
}

// TransitionRfq handles POST /api/v1/rfqs/:id/status
func (h *Handlers) TransitionRfq(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rfq, err := h.statusService.TransitionRfq(c.Request.Context(), id, req.Status, actorFromContext(c).UserID, req.Reason)
	if err != nil {
		h.serviceError(c, err, "failed to transition rfq")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rfq})
}

// RfqHistory handles GET /api/v1/rfqs/:id/history
func (h *Handlers) RfqHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history := h.statusService.RfqHistory(c.Request.Context(), id)
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// CreateQuote handles POST /api/v1/quotes
func (h *Handlers) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	quote := &entity.Quote{
		RfqID:       req.RfqID,
		SupplierID:  req.SupplierID,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
		Remarks:     req.Remarks,
		SubmittedBy: actorFromContext(c).UserID,
	}
	if err := h.statusService.CreateQuote(c.Request.Context(), quote); err != nil {
		h.serviceError(c, err, "failed to create quote")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: quote})
}

// TransitionQuote handles POST /api/v1/quotes/:id/status
func (h *Handlers) TransitionQuote(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	quote, err := h.statusService.TransitionQuote(c.Request.Context(), id, req.Status, actorFromContext(c).UserID, req.Reason)
	if err != nil {
		h.serviceError(c, err, "failed to transition quote")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: quote})
}

// QuoteHistory handles GET /api/v1/quotes/:id/history
func (h *Handlers) QuoteHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history := h.statusService.QuoteHistory(c.Request.Context(), id)
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// CreateReconciliation handles POST /api/v1/reconciliations
func (h *Handlers) CreateReconciliation(c *gin.Context) {
	var req CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rec := &entity.Reconciliation{
		SupplierID:      req.SupplierID,
		Period:          req.Period,
		StatementAmount: req.StatementAmount,
	}
	if err := h.statusService.CreateReconciliation(c.Request.Context(), rec); err != nil {
		h.serviceError(c, err, "failed to create reconciliation")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: rec})
}

// TransitionReconciliation handles POST /api/v1/reconciliations/:id/status
func (h *Handlers) TransitionReconciliation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rec, err := h.statusService.TransitionReconciliation(c.Request.Context(), id, req.Status, actorFromContext(c).UserID, req.Reason)
	if err != nil {
		h.serviceError(c, err, "failed to transition reconciliation")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// ReconciliationHistory handles GET /api/v1/reconciliations/:id/history
func (h *Handlers) ReconciliationHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history := h.statusService.ReconciliationHistory(c.Request.Context(), id)
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// RegisterSupplier handles POST /api/v1/suppliers
func (h *Handlers) RegisterSupplier(c *gin.Context) {
	var supplier entity.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	if err := h.supplierService.Register(c.Request.Context(), &supplier); err != nil {
		h.serviceError(c, err, "failed to register supplier")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: supplier})
}

// GetSupplier handles GET /api/v1/suppliers/:id
func (h *Handlers) GetSupplier(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to get supplier")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: supplier})
}

// StartUpgrade handles POST /api/v1/suppliers/:id/upgrade
func (h *Handlers) StartUpgrade(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	instance, err := h.supplierService.StartUpgrade(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		h.serviceError(c, err, "failed to start upgrade workflow")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: instance})
}

// GetWorkflow handles GET /api/v1/workflows/:id
func (h *Handlers) GetWorkflow(c *gin.Context) {
	details, err := h.supplierService.GetUpgradeWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "failed to get workflow")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: details})
}

// DecideWorkflow handles POST /api/v1/workflows/:id/decisions
func (h *Handlers) DecideWorkflow(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := h.supplierService.DecideUpgrade(c.Request.Context(), c.Param("id"), actorFromContext(c), req.Decision, req.Comments)
	if err != nil {
		h.serviceError(c, err, "failed to decide workflow step")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// CreateChangeRequest handles POST /api/v1/change-requests
func (h *Handlers) CreateChangeRequest(c *gin.Context) {
	var req CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	cr, err := h.changeRequestService.CreateChangeRequest(
		c.Request.Context(), req.SupplierID, req.Changes, actorFromContext(c).UserID)
	if err != nil {
		h.serviceError(c, err, "failed to create change request")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: cr})
}

// DecideChangeRequest handles POST /api/v1/change-requests/:id/decisions
func (h *Handlers) DecideChangeRequest(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	cr, err := h.changeRequestService.ApproveChangeRequest(
		c.Request.Context(), c.Param("id"), actorFromContext(c), req.Decision, req.Comments)
	if err != nil {
		h.serviceError(c, err, "failed to decide change request")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: cr})
}

// GetChangeRequest handles GET /api/v1/change-requests/:id
func (h *Handlers) GetChangeRequest(c *gin.Context) {
	details, err := h.changeRequestService.GetChangeRequestDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "failed to get change request")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: details})
}

// ListPendingChangeRequests handles GET /api/v1/change-requests/pending
func (h *Handlers) ListPendingChangeRequests(c *gin.Context) {
	var req ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	pending, err := h.changeRequestService.GetPendingApprovals(c.Request.Context(), actorFromContext(c), req.Limit, req.Offset)
	if err != nil {
		h.serviceError(c, err, "failed to list pending change requests")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: pending})
}

// ListSupplierChangeRequests handles GET /api/v1/suppliers/:id/change-requests
func (h *Handlers) ListSupplierChangeRequests(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	requests, err := h.changeRequestService.GetSupplierChangeRequests(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to list change requests")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// pathID parses the numeric :id path parameter, writing a 400 on failure
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// serviceError translates service failures into HTTP responses. Typed service
// errors carry their own status code; everything else is a 500 with a generic
// message.
func (h *Handlers) serviceError(c *gin.Context, err error, fallback string) {
	if se, ok := service.AsServiceError(err); ok {
		c.JSON(se.StatusCode, Response{Success: false, Error: se.Message})
		return
	}

	h.logger.Error(fallback, "error", err)
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
}
