package logging

// Standard field names for structured log output.
const (
	FieldFile          = "file_path"
	FieldFormat        = "format"
	FieldAccountID     = "account_id"
	FieldTransactionID = "transaction_id"
	FieldRuleID        = "rule_id"
	FieldEntityType    = "entity_type"
	FieldEntityID      = "entity_id"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldFailed        = "failed"
	FieldDelimiter     = "delimiter"
	FieldEncoding      = "encoding"
)
