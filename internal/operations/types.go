package operations

import (
	"time"
)

// Analysis step identifiers, in execution order.
const (
	StepIDLoad       = "load"
	StepIDPrepare    = "prepare"
	StepIDCategorize = "categorize"
	StepIDAggregate  = "aggregate"
	StepIDExport     = "export"
)

// Analysis step names
const (
	StepNameLoad       = "Load Input Tables"
	StepNamePrepare    = "Join and Enrich Orders"
	StepNameCategorize = "Categorize Products"
	StepNameAggregate  = "Aggregate Return Rates"
	StepNameExport     = "Write Reports"
)

// Step metadata keys
const (
	MetaRecords      = "records"
	MetaForwardRows  = "forward_rows"
	MetaOrderRows    = "order_rows"
	MetaDroppedRows  = "dropped_rows"
	MetaCategories   = "categories"
	MetaFilesWritten = "files_written"
)

// DefaultStepTimeout bounds a single step.
const DefaultStepTimeout = 10 * time.Minute

// OperationResponse summarizes a finished operation
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Order    []string              `json:"order"`
	Error    string                `json:"error,omitempty"`
}
