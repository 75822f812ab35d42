package entity

import "time"

// Reconciliation represents a supplier statement reconciliation record
type Reconciliation struct {
	ID                 int64     `json:"id"`
	SupplierID         int64     `json:"supplier_id"`
	Period             string    `json:"period"`
	Status             string    `json:"status"`
	StatementAmount    float64   `json:"statement_amount"`
	WarehouseReceiptID *int64    `json:"warehouse_receipt_id,omitempty"`
	VarianceAmount     *float64  `json:"variance_amount,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
