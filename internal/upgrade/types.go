package upgrade

import (
	"fmt"

	"github.com/temirov/pyport/internal/compatibility"
	"github.com/temirov/pyport/internal/dependencies"
	"github.com/temirov/pyport/internal/interpreter"
	"github.com/temirov/pyport/internal/migration"
	"github.com/temirov/pyport/internal/reports"
)

// State names a step of the upgrade workflow.
type State string

// Workflow states. AlreadyTarget, ReportIncompatible, Execute, Cancelled, InvalidInput, and Failed are terminal;
// PreviewMigration is terminal only for an assessment.
const (
	StateProbeVersion       State = "ProbeVersion"
	StateAlreadyTarget      State = "AlreadyTarget"
	StateCheckDependencies  State = "CheckDependencies"
	StateReportIncompatible State = "ReportIncompatible"
	StatePreviewMigration   State = "PreviewMigration"
	StateAwaitConfirmation  State = "AwaitConfirmation"
	StateExecute            State = "Execute"
	StateCancelled          State = "Cancelled"
	StateInvalidInput       State = "InvalidInput"
	StateFailed             State = "Failed"
)

// Decision is the interpreted answer to the confirmation prompt.
type Decision int

// Confirmation decisions.
const (
	DecisionInvalid Decision = iota
	DecisionAccepted
	DecisionDeclined
)

// String returns a lower-case label for logging.
func (decision Decision) String() string {
	switch decision {
	case DecisionAccepted:
		return "accepted"
	case DecisionDeclined:
		return "declined"
	default:
		return "invalid"
	}
}

// Options configures a single workflow run.
type Options struct {
	SourceDirectory      string
	DestinationDirectory string
	TargetVersion        string
	ChangesLogPath       string
	ConcernsLogPath      string
	AssumeYes            bool
}

// Outcome reports how far the workflow progressed and what it observed.
type Outcome struct {
	State           State
	DetectedVersion interpreter.Version
	Dependencies    []dependencies.Dependency
	Assessment      compatibility.Assessment
	ProposedChanges reports.ChangeSet
	Decision        Decision
	MigrationResult migration.Result
}

// InvalidInputError describes option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}
