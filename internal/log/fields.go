package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldAccountID   = "account_id"
	FieldReportID    = "report_id"
	FieldBatchSize   = "batch_size"
	FieldTopCategory = "top_category"
	FieldInsights    = "insight_count"
	FieldTotalCents  = "total_cents"
	FieldSource      = "source"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentEngine   = "engine"
	ComponentTaxonomy = "taxonomy"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSource   = "source"
	ComponentService  = "service"
)

// Operations defines standard operation names.
const (
	OpAnalyze  = "analyze"
	OpFetch    = "fetch"
	OpSave     = "save"
	OpList     = "list"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
