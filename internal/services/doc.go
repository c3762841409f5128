// Package services is the layer between the report viewer's HTTP handlers
// and the artifacts the analyzer writes.
//
// ReportService reads the JSON report and the SQLite run history from the
// reports directory; HealthService reports process and report availability.
// Services never write to the reports directory.
package services
