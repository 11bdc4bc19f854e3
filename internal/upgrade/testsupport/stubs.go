package testsupport

import (
	"context"

	"github.com/temirov/pyport/internal/compatibility"
	"github.com/temirov/pyport/internal/dependencies"
	"github.com/temirov/pyport/internal/interpreter"
	"github.com/temirov/pyport/internal/migration"
	"github.com/temirov/pyport/internal/reports"
	"github.com/temirov/pyport/internal/upgrade"
)

// VersionProberStub returns a configured version and records probed directories.
type VersionProberStub struct {
	Version           interpreter.Version
	Error             error
	ProbedDirectories []string
}

// Probe records the directory and returns the configured result.
func (prober *VersionProberStub) Probe(_ context.Context, sourceDirectory string) (interpreter.Version, error) {
	prober.ProbedDirectories = append(prober.ProbedDirectories, sourceDirectory)
	return prober.Version, prober.Error
}

// DependencyScannerStub returns configured dependencies and counts invocations.
type DependencyScannerStub struct {
	Dependencies []dependencies.Dependency
	Error        error
	CallCount    int
}

// Scan counts the call and returns the configured result.
func (scanner *DependencyScannerStub) Scan(context.Context) ([]dependencies.Dependency, error) {
	scanner.CallCount++
	if scanner.Error != nil {
		return nil, scanner.Error
	}
	return append([]dependencies.Dependency{}, scanner.Dependencies...), nil
}

// CompatibilityAssessorStub marks the named dependencies incompatible.
type CompatibilityAssessorStub struct {
	IncompatibleNames map[string]bool
	Error             error
	Received          []dependencies.Dependency
}

// Assess splits dependencies by the configured incompatible names.
func (assessor *CompatibilityAssessorStub) Assess(_ context.Context, scannedDependencies []dependencies.Dependency) (compatibility.Assessment, error) {
	assessor.Received = append([]dependencies.Dependency{}, scannedDependencies...)
	if assessor.Error != nil {
		return compatibility.Assessment{}, assessor.Error
	}
	assessment := compatibility.Assessment{}
	for _, scannedDependency := range scannedDependencies {
		if assessor.IncompatibleNames[scannedDependency.Name] {
			assessment.Incompatible = append(assessment.Incompatible, scannedDependency)
			continue
		}
		assessment.Compatible = append(assessment.Compatible, scannedDependency)
	}
	return assessment, nil
}

// MigrationPreviewerStub returns a configured change set.
type MigrationPreviewerStub struct {
	ChangeSet        reports.ChangeSet
	Error            error
	PreviewedSources []string
}

// Preview records the source directory and returns the configured result.
func (previewer *MigrationPreviewerStub) Preview(_ context.Context, sourceDirectory string) (reports.ChangeSet, error) {
	previewer.PreviewedSources = append(previewer.PreviewedSources, sourceDirectory)
	return previewer.ChangeSet, previewer.Error
}

// MigrationExecutorStub records migrations without touching the filesystem.
type MigrationExecutorStub struct {
	Result     migration.Result
	Error      error
	Executions [][2]string
}

// Execute records the source and destination pair.
func (executor *MigrationExecutorStub) Execute(_ context.Context, sourceDirectory string, destinationDirectory string) (migration.Result, error) {
	executor.Executions = append(executor.Executions, [2]string{sourceDirectory, destinationDirectory})
	return executor.Result, executor.Error
}

// ReportWriterStub captures written reports in memory.
type ReportWriterStub struct {
	Concerns        map[string][]dependencies.Dependency
	ProposedChanges map[string]reports.ChangeSet
	ConcernsError   error
	ChangesError    error
}

// WriteCompatibilityConcerns stores the dependencies under the report path.
func (writer *ReportWriterStub) WriteCompatibilityConcerns(reportPath string, incompatibleDependencies []dependencies.Dependency) error {
	if writer.ConcernsError != nil {
		return writer.ConcernsError
	}
	if writer.Concerns == nil {
		writer.Concerns = map[string][]dependencies.Dependency{}
	}
	writer.Concerns[reportPath] = append([]dependencies.Dependency{}, incompatibleDependencies...)
	return nil
}

// WriteProposedChanges stores the change set under the report path.
func (writer *ReportWriterStub) WriteProposedChanges(reportPath string, changeSet reports.ChangeSet) error {
	if writer.ChangesError != nil {
		return writer.ChangesError
	}
	if writer.ProposedChanges == nil {
		writer.ProposedChanges = map[string]reports.ChangeSet{}
	}
	writer.ProposedChanges[reportPath] = append(reports.ChangeSet{}, changeSet...)
	return nil
}

// ConfirmationPrompterStub answers prompts with a fixed response.
type ConfirmationPrompterStub struct {
	Response string
	Error    error
	Prompts  []string
}

// Confirm records the prompt and interprets the configured response.
func (prompter *ConfirmationPrompterStub) Confirm(prompt string) (upgrade.Decision, error) {
	prompter.Prompts = append(prompter.Prompts, prompt)
	if prompter.Error != nil {
		return upgrade.DecisionInvalid, prompter.Error
	}
	return upgrade.InterpretResponse(prompter.Response), nil
}
