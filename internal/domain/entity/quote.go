package entity

import "time"

// Quote represents a supplier quotation against an RFQ
type Quote struct {
	ID          int64     `json:"id"`
	RfqID       int64     `json:"rfq_id"`
	SupplierID  int64     `json:"supplier_id"`
	Status      string    `json:"status"`
	TotalAmount *float64  `json:"total_amount,omitempty"`
	Currency    string    `json:"currency"`
	Remarks     string    `json:"remarks,omitempty"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
