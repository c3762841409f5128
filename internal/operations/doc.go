// Package operations runs an analysis as a sequence of steps.
//
// A Manager executes the registered steps in order against one
// OperationState. Each step records its status, timing and metadata in a
// StepState and runs inside its own OpenTelemetry span. When a step fails
// the operation fails and the remaining steps are marked skipped.
//
// NewAnalysisSteps returns the standard pipeline: load, prepare,
// categorize, aggregate and export.
package operations
