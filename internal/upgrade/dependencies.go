package upgrade

import (
	"context"

	"github.com/temirov/pyport/internal/compatibility"
	"github.com/temirov/pyport/internal/dependencies"
	"github.com/temirov/pyport/internal/interpreter"
	"github.com/temirov/pyport/internal/migration"
	"github.com/temirov/pyport/internal/reports"
)

// VersionProber reports the interpreter version governing a source tree.
type VersionProber interface {
	Probe(executionContext context.Context, sourceDirectory string) (interpreter.Version, error)
}

// DependencyScanner lists installed dependencies.
type DependencyScanner interface {
	Scan(executionContext context.Context) ([]dependencies.Dependency, error)
}

// CompatibilityAssessor splits dependencies by compatibility verdict.
type CompatibilityAssessor interface {
	Assess(executionContext context.Context, scannedDependencies []dependencies.Dependency) (compatibility.Assessment, error)
}

// MigrationPreviewer collects proposed rewrite changes without modifying sources.
type MigrationPreviewer interface {
	Preview(executionContext context.Context, sourceDirectory string) (reports.ChangeSet, error)
}

// MigrationExecutor copies and rewrites the source tree.
type MigrationExecutor interface {
	Execute(executionContext context.Context, sourceDirectory string, destinationDirectory string) (migration.Result, error)
}

// ReportWriter persists the workflow's log files.
type ReportWriter interface {
	WriteCompatibilityConcerns(reportPath string, incompatibleDependencies []dependencies.Dependency) error
	WriteProposedChanges(reportPath string, changeSet reports.ChangeSet) error
}

// ConfirmationPrompter asks the user whether to proceed.
type ConfirmationPrompter interface {
	Confirm(prompt string) (Decision, error)
}
