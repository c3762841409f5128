// Package http implements the read-only report viewer served by
// cmd/dashboard.
//
// Handlers stay thin: they parse the request, call a service interface and
// render JSON with go-chi/render. Every error goes through the shared
// errors.ErrorHandler so clients always receive RFC 7807 problem details
// carrying the request id.
//
// # Routes
//
//	GET /api/health                 process and report availability
//	GET /api/report                 the latest report envelope
//	GET /api/report/categories      category summaries of the latest run
//	GET /api/report/price-ranges    price bucket summaries of the latest run
//	GET /api/report/history         runs recorded in the history database
//	GET /api/report/history/categories/{category}
//	                                one category across recorded runs
//	GET /metrics                    Prometheus exposition
//
// # Middleware
//
// RequestID runs first, followed by panic recovery, structured request
// logging, OpenTelemetry spans and metrics, the global rate limiter and a
// request timeout derived from the server write timeout.
package http
