package entity

// Entity type names used in status history and workflow instance rows
const (
	EntityTypeSupplier       = "supplier"
	EntityTypeRfq            = "rfq"
	EntityTypeQuote          = "quote"
	EntityTypeReconciliation = "reconciliation"
)

// Supplier lifecycle status constants
const (
	SupplierStatusTemporary    = "temporary"
	SupplierStatusUpgrading    = "upgrading"
	SupplierStatusQualified    = "qualified"
	SupplierStatusDisqualified = "disqualified"
)

// Rfq status constants
const (
	RfqStatusDraft      = "draft"
	RfqStatusPublished  = "published"
	RfqStatusInProgress = "in_progress"
	RfqStatusConfirmed  = "confirmed"
	RfqStatusClosed     = "closed"
	RfqStatusCancelled  = "cancelled"
)

// Quote status constants
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSubmitted = "submitted"
	QuoteStatusSelected  = "selected"
	QuoteStatusRejected  = "rejected"
	QuoteStatusWithdrawn = "withdrawn"
)

// Reconciliation status constants
const (
	ReconciliationStatusPending   = "pending"
	ReconciliationStatusMatched   = "matched"
	ReconciliationStatusVariance  = "variance"
	ReconciliationStatusUnmatched = "unmatched"
	ReconciliationStatusDisputed  = "disputed"
	ReconciliationStatusConfirmed = "confirmed"
)

// Change request type constants
const (
	ChangeTypeProfileUpdateRequired = "profile_update_required"
	ChangeTypeProfileUpdateOptional = "profile_update_optional"
)

// Change request terminal status constants; non-terminal statuses are
// "pending_<step>" where <step> is the key of the awaited workflow step.
const (
	ChangeRequestStatusApproved = "approved"
	ChangeRequestStatusRejected = "rejected"
)

// Risk level constants for change requests
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)
