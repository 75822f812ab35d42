package workflow

// Workflow type constants
const (
	TypeSupplierUpgrade = "supplier_upgrade"
)

// Approval step keys shared by the supplier upgrade and change request chains
const (
	StepPurchaser           = "purchaser"
	StepQualityManager      = "quality_manager"
	StepProcurementManager  = "procurement_manager"
	StepProcurementDirector = "procurement_director"
	StepFinanceDirector     = "finance_director"
)

// SupplierUpgradeDefinition drives the temporary-supplier upgrade approval:
// purchaser review, quality audit, then procurement manager sign-off.
var SupplierUpgradeDefinition = Definition{
	Type: TypeSupplierUpgrade,
	Steps: []StepDefinition{
		{
			Key:                StepPurchaser,
			Label:              "Purchaser Review",
			RequiredPermission: "supplier_upgrade:purchaser",
			AllowedRoles:       []string{"purchaser"},
		},
		{
			Key:                StepQualityManager,
			Label:              "Quality Audit",
			RequiredPermission: "supplier_upgrade:quality_manager",
			AllowedRoles:       []string{"quality_manager"},
		},
		{
			Key:                StepProcurementManager,
			Label:              "Procurement Manager Sign-off",
			RequiredPermission: "supplier_upgrade:procurement_manager",
			AllowedRoles:       []string{"procurement_manager"},
		},
	},
}

// ChangeRequestRequiredSteps is the 5-step chain applied when any required
// supplier profile field changes.
var ChangeRequestRequiredSteps = []StepDefinition{
	{
		Key:                StepPurchaser,
		Label:              "Purchaser Review",
		RequiredPermission: "change_request:purchaser",
		AllowedRoles:       []string{"purchaser"},
	},
	{
		Key:                StepQualityManager,
		Label:              "Quality Review",
		RequiredPermission: "change_request:quality_manager",
		AllowedRoles:       []string{"quality_manager"},
	},
	{
		Key:                StepProcurementManager,
		Label:              "Procurement Manager Review",
		RequiredPermission: "change_request:procurement_manager",
		AllowedRoles:       []string{"procurement_manager"},
	},
	{
		Key:                StepProcurementDirector,
		Label:              "Procurement Director Review",
		RequiredPermission: "change_request:procurement_director",
		AllowedRoles:       []string{"procurement_director"},
	},
	{
		Key:                StepFinanceDirector,
		Label:              "Finance Director Review",
		RequiredPermission: "change_request:finance_director",
		AllowedRoles:       []string{"finance_director"},
	},
}

// ChangeRequestOptionalSteps is the single-step chain applied when only
// non-required profile fields change.
var ChangeRequestOptionalSteps = []StepDefinition{
	{
		Key:                StepPurchaser,
		Label:              "Purchaser Review",
		RequiredPermission: "change_request:purchaser",
		AllowedRoles:       []string{"purchaser"},
	},
}
