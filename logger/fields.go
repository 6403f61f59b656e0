package logger

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldMode      = "mode"
	FieldCommand   = "command"
	FieldState     = "state"

	// Files and paths
	FieldPath      = "path"
	FieldOutputDir = "output_dir"
	FieldIndex     = "index"

	// Counts and sizes
	FieldCount   = "count"
	FieldRecords = "records"
	FieldBytes   = "bytes"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError    = "error"
	FieldExitCode = "exit_code"
)
