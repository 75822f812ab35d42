package entity

import "time"

// Rfq represents a request-for-quotation round sent to suppliers
type Rfq struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	LineItemMode bool       `json:"line_item_mode"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RfqLineItem represents a single requested line within a line-item-mode RFQ
type RfqLineItem struct {
	ID          int64     `json:"id"`
	RfqID       int64     `json:"rfq_id"`
	MaterialNo  string    `json:"material_no"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
}
