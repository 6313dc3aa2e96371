package models

// Match target types
const (
	EntityInvoice = "invoice"
	EntityBill    = "bill"
	EntityPayment = "payment"
)

// Open item statuses excluded from matching
const (
	StatusDraft  = "draft"
	StatusVoided = "voided"
)

// Rule condition fields
const (
	FieldDescription = "description"
	FieldPayee       = "payee"
	FieldAmount      = "amount"
	FieldReference   = "reference"
)

// Rule condition operators
const (
	OperatorContains = "contains"
	OperatorEquals   = "equals"
	OperatorBetween  = "between"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
