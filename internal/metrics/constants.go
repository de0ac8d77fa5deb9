package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "kitbox_http_requests_total"
	MetricNameHTTPRequestDuration  = "kitbox_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "kitbox_http_requests_in_flight"
	MetricNameAPIRequestsTotal     = "kitbox_api_requests_total"
	MetricNameAPIRequestDuration   = "kitbox_api_request_duration_seconds"
	MetricNameCredentialEvents     = "kitbox_credential_events_total"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of page requests served"
	HelpTextHTTPRequestDuration  = "Page request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of page requests being served"
	HelpTextAPIRequestsTotal     = "Total number of calls made to the inventory API"
	HelpTextAPIRequestDuration   = "Inventory API call latency in seconds"
	HelpTextCredentialEvents     = "Credential lifecycle events (stored, cleared, expired)"
)

// Label names
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelEndpoint = "endpoint"
	LabelStatus   = "status"
	LabelEvent    = "event"
)

// StatusTransportError labels upstream calls that never produced an HTTP status.
const StatusTransportError = "transport_error"

// HTTPLatencyBuckets covers page renders, which include one or two upstream round trips.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
