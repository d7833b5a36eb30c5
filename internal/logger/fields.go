package logger

// Structured field keys shared across components.
const (
	FieldComponent = "component"
	FieldSurface   = "surface"
	FieldQuery     = "query"
	FieldValue     = "value"
	FieldState     = "state"
	FieldURL       = "url"
	FieldKey       = "key"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
)
