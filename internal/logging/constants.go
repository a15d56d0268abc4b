package logging

// Standard field names so log output stays consistent across packages.
const (
	FieldOperation  = "operation"
	FieldComponent  = "component"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldReason     = "reason"
	FieldDuration   = "duration"
	FieldCount      = "count"
	FieldMonths     = "months"
	FieldCategory   = "category"
	FieldModel      = "model"
	FieldBackend    = "backend"
	FieldSource     = "source"
	FieldRunID      = "run_id"
	FieldOutputFile = "output_file"
	FieldInputFile  = "input_file"
	FieldDelimiter  = "delimiter"
	FieldAddress    = "address"
)
