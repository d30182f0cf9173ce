package metrics

// Metric name constants following Prometheus naming conventions
// Format: schemahub_{component}_{metric}_{unit}

// Registry metrics
const (
	MetricRegistryOperationsTotal    = "schemahub_registry_operations_total"
	MetricRegistryOperationDuration  = "schemahub_registry_operation_duration_seconds"
	MetricRegistryOperationFailures  = "schemahub_registry_operation_failures_total"
)

// API metrics
const (
	MetricAPIRequestsTotal   = "schemahub_api_requests_total"
	MetricAPIRequestDuration = "schemahub_api_request_duration_seconds"
)

// Label name constants
const (
	LabelOperation = "operation"
	LabelMethod    = "method"
	LabelEndpoint  = "endpoint"
	LabelStatus    = "status"
)
