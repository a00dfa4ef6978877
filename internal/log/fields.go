package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldRecordID   = "record_id"
	FieldRecordKind = "record_kind"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldExportName = "export_name"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentAuth      = "auth"
	ComponentExport    = "export"
	ComponentSnapshot  = "snapshot"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentFirestore = "firestore"
	ComponentCache     = "cache"
)

// Standard operation names.
const (
	OpAdd       = "add"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpSubscribe = "subscribe"
	OpSnapshot  = "snapshot"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
