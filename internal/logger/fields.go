package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard tracing fields (context level)
// These fields are propagated through the call chain.
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldBatchID identifies one concept-to-image generation run.
	FieldBatchID = "batch_id"

	// FieldConceptID is the 1-based concept index within a batch.
	FieldConceptID = "concept_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldModel is the upstream generative model identifier.
	FieldModel = "model"
)

// ============================================
// Standard metric fields (entry level)
// These fields are used for aggregation and alerting.
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field.
	FieldCount = "count"

	// FieldSize is the data size in bytes.
	FieldSize = "size"

	// FieldStatus is the operation status.
	FieldStatus = "status"
)
