package log

// Field names shared across components.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSource     = "source"
	FieldMode       = "mode"
	FieldRecords    = "records"
	FieldRevision   = "revision"
	FieldFormat     = "format"
	FieldScope      = "scope"
)

// Component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
	ComponentCLI      = "cli"
	ComponentSecurity = "security"
)

// Operation names.
const (
	OpLoad     = "load"
	OpImport   = "import"
	OpFilter   = "filter"
	OpExport   = "export"
	OpSave     = "save"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// Fields builds structured attributes in a fixed order.
type Fields []any

func NewFields() Fields { return Fields{} }

func (f Fields) With(key string, value any) Fields {
	return append(f, key, value)
}

func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error())
}

func (f Fields) WithOperation(op string) Fields {
	return append(f, FieldOperation, op)
}

func (f Fields) WithHTTPRequest(method, path, query string) Fields {
	return append(f, FieldMethod, method, FieldPath, path, FieldQuery, query)
}

func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	return append(f, FieldStatusCode, statusCode, FieldDuration, durationMs)
}
