package service

import (
	"strconv"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
)

// requiredFieldKeys is the static set of supplier profile fields whose change
// routes a request through the full 5-step approval chain.
var requiredFieldKeys = map[string]bool{
	"companyName":                true,
	"businessRegistrationNumber": true,
	"bankAccount":                true,
	"bankName":                   true,
	"taxNumber":                  true,
	"legalRepresentative":        true,
	"registeredAddress":          true,
	"contactPerson":              true,
	"contactPhone":               true,
	"contactEmail":               true,
	"businessScope":              true,
	"supplierType":               true,
}

// highRiskFieldKeys flag a change request as high risk when any of them change
var highRiskFieldKeys = map[string]bool{
	"companyName":                true,
	"businessRegistrationNumber": true,
	"bankAccount":                true,
}

// supplierFieldSetters is the compile-time field-mapping table used to apply
// an approved payload to the live supplier record. Updates are permissive and
// best-effort: unknown keys and unconvertible values are skipped silently.
var supplierFieldSetters = map[string]func(*entity.Supplier, string){
	"companyName":                func(s *entity.Supplier, v string) { s.CompanyName = v },
	"businessRegistrationNumber": func(s *entity.Supplier, v string) { s.BusinessRegistrationNumber = v },
	"bankAccount":                func(s *entity.Supplier, v string) { s.BankAccount = v },
	"bankName":                   func(s *entity.Supplier, v string) { s.BankName = v },
	"taxNumber":                  func(s *entity.Supplier, v string) { s.TaxNumber = v },
	"legalRepresentative":        func(s *entity.Supplier, v string) { s.LegalRepresentative = v },
	"registeredAddress":          func(s *entity.Supplier, v string) { s.RegisteredAddress = v },
	"contactPerson":              func(s *entity.Supplier, v string) { s.ContactPerson = v },
	"contactPhone":               func(s *entity.Supplier, v string) { s.ContactPhone = v },
	"contactEmail":               func(s *entity.Supplier, v string) { s.ContactEmail = v },
	"businessScope":              func(s *entity.Supplier, v string) { s.BusinessScope = v },
	"supplierType":               func(s *entity.Supplier, v string) { s.SupplierType = v },
	"website":                    func(s *entity.Supplier, v string) { s.Website = v },
	"paymentTerms":               func(s *entity.Supplier, v string) { s.PaymentTerms = v },
	"notes":                      func(s *entity.Supplier, v string) { s.Notes = v },
	"registeredCapital": func(s *entity.Supplier, v string) {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return
		}
		s.RegisteredCapital = capital
	},
}

// applySupplierFields applies a payload to the supplier through the mapping
// table and returns the number of fields actually applied
func applySupplierFields(s *entity.Supplier, payload map[string]string) int {
	applied := 0
	for key, value := range payload {
		setter, ok := supplierFieldSetters[key]
		if !ok {
			continue
		}
		setter(s, value)
		applied++
	}
	return applied
}
