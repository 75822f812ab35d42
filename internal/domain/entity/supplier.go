package entity

import "time"

// Supplier represents a supplier profile record
type Supplier struct {
	ID                         int64     `json:"id"`
	Code                       string    `json:"code"`
	CompanyName                string    `json:"company_name"`
	BusinessRegistrationNumber string    `json:"business_registration_number"`
	BankAccount                string    `json:"bank_account"`
	BankName                   string    `json:"bank_name"`
	TaxNumber                  string    `json:"tax_number"`
	LegalRepresentative        string    `json:"legal_representative"`
	RegisteredAddress          string    `json:"registered_address"`
	ContactPerson              string    `json:"contact_person"`
	ContactPhone               string    `json:"contact_phone"`
	ContactEmail               string    `json:"contact_email"`
	BusinessScope              string    `json:"business_scope"`
	SupplierType               string    `json:"supplier_type"`
	Website                    string    `json:"website,omitempty"`
	PaymentTerms               string    `json:"payment_terms,omitempty"`
	RegisteredCapital          float64   `json:"registered_capital,omitempty"`
	Notes                      string    `json:"notes,omitempty"`
	Status                     string    `json:"status"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}
