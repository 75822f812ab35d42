package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendorlink/supplierflow/internal/domain/entity"
)

func TestApplySupplierFields(t *testing.T) {
	s := &entity.Supplier{CompanyName: "Old Co"}

	applied := applySupplierFields(s, map[string]string{
		"companyName":       "New Co",
		"contactEmail":      "ops@new.example",
		"registeredCapital": "1500000.50",
		"unknownField":      "ignored",
	})

	assert.Equal(t, 3, applied)
	assert.Equal(t, "New Co", s.CompanyName)
	assert.Equal(t, "ops@new.example", s.ContactEmail)
	assert.Equal(t, 1500000.50, s.RegisteredCapital)
}

func TestApplySupplierFieldsBadNumber(t *testing.T) {
	s := &entity.Supplier{RegisteredCapital: 100}

	// Unconvertible numeric value counts as applied but leaves the field alone
	applied := applySupplierFields(s, map[string]string{"registeredCapital": "not-a-number"})
	assert.Equal(t, 1, applied)
	assert.Equal(t, float64(100), s.RegisteredCapital)
}

func TestClassifyRisk(t *testing.T) {
	assert.Equal(t, entity.RiskLevelHigh, classifyRisk(map[string]string{"companyName": "x"}))
	assert.Equal(t, entity.RiskLevelHigh, classifyRisk(map[string]string{
		"businessRegistrationNumber": "x", "website": "y",
	}))
	assert.Equal(t, entity.RiskLevelMedium, classifyRisk(map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4", "e": "5",
	}))
	assert.Equal(t, entity.RiskLevelLow, classifyRisk(map[string]string{"website": "x"}))
	assert.Equal(t, entity.RiskLevelLow, classifyRisk(map[string]string{}))
}

func TestRequiredAndHighRiskSetsAgree(t *testing.T) {
	// Every high risk field must also be a required field
	for key := range highRiskFieldKeys {
		assert.True(t, requiredFieldKeys[key], key)
	}

	// Every required field must be applicable through the mapping table
	for key := range requiredFieldKeys {
		_, ok := supplierFieldSetters[key]
		assert.True(t, ok, key)
	}
}
