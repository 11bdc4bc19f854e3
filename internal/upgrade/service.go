package upgrade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pyport/internal/compatibility"
)

const (
	// DefaultTargetVersion is the Python version migrated to when none is configured.
	DefaultTargetVersion = "3.9"
	// DefaultChangesLogPath receives the proposed rewrite diffs.
	DefaultChangesLogPath = "changes_for_update.log"
	// DefaultConcernsLogPath receives the incompatible dependencies.
	DefaultConcernsLogPath = "compatibility-concerns.log"
	// ConfirmationPrompt is shown before the tree is copied and rewritten.
	ConfirmationPrompt = "Enter 'Y' to proceed with the update or 'N' to cancel: "

	detectedVersionTemplateConstant         = "Detected Python version: %s"
	alreadyTargetTemplateConstant           = "Python version is already %s.x. No need to update."
	incompatibleHeaderTemplateConstant      = "The following dependencies are not compatible with Python %s:"
	reviewConcernsTemplateConstant          = "Please review the %s file for more details."
	proceedingTemplateConstant              = "All dependencies are compatible with Python %s. Proceeding with the update."
	compatibleTemplateConstant              = "All dependencies are compatible with Python %s."
	dryRunCompletedTemplateConstant         = "Dry run completed. Proposed changes logged in '%s'."
	updateSucceededTemplateConstant         = "Update to Python %s successful."
	updateCanceledMessageConstant           = "Update canceled."
	invalidInputMessageConstant             = "Invalid input. Update canceled."
	versionDetectionFailedMessageConstant   = "Error during version detection"
	dependencyScanFailedMessageConstant     = "Error during dependency scan"
	updateFailedMessageConstant             = "Error during update"
	confirmationFailedMessageConstant       = "Error reading confirmation"
	versionDetectionErrorTemplateConstant   = "version detection failed: %w"
	dependencyScanErrorTemplateConstant     = "dependency scan failed: %w"
	updateErrorTemplateConstant             = "update failed: %w"
	confirmationErrorTemplateConstant       = "confirmation failed: %w"
	requiredValueMessageConstant            = "must not be empty"
	sourceDirectoryFieldNameConstant        = "source"
	destinationDirectoryFieldNameConstant   = "destination"
	logFieldStateConstant                   = "state"
	logFieldSourceDirectoryConstant         = "source_directory"
	logFieldDestinationDirectoryConstant    = "destination_directory"
	logFieldDecisionConstant                = "decision"
	logFieldCopiedFileCountConstant         = "copied_files"
	logFieldDependencyCountConstant         = "dependency_count"
	versionProberMissingMessageConstant     = "version prober not configured"
	dependencyScannerMissingMessageConstant = "dependency scanner not configured"
	assessorMissingMessageConstant          = "compatibility assessor not configured"
	previewerMissingMessageConstant         = "migration previewer not configured"
	executorMissingMessageConstant          = "migration executor not configured"
	reportWriterMissingMessageConstant      = "report writer not configured"
	prompterMissingMessageConstant          = "confirmation prompter not configured"
	workflowStateChangedMessageConstant     = "workflow state changed"
	confirmationReceivedMessageConstant     = "confirmation received"
)

var (
	errVersionProberMissing     = errors.New(versionProberMissingMessageConstant)
	errDependencyScannerMissing = errors.New(dependencyScannerMissingMessageConstant)
	errAssessorMissing          = errors.New(assessorMissingMessageConstant)
	errPreviewerMissing         = errors.New(previewerMissingMessageConstant)
	errExecutorMissing          = errors.New(executorMissingMessageConstant)
	errReportWriterMissing      = errors.New(reportWriterMissingMessageConstant)
	errPrompterMissing          = errors.New(prompterMissingMessageConstant)
)

// ServiceDependencies describes the collaborators required by the upgrade workflow.
type ServiceDependencies struct {
	Logger                *zap.Logger
	VersionProber         VersionProber
	DependencyScanner     DependencyScanner
	CompatibilityAssessor CompatibilityAssessor
	MigrationPreviewer    MigrationPreviewer
	MigrationExecutor     MigrationExecutor
	ReportWriter          ReportWriter
	ConfirmationPrompter  ConfirmationPrompter
}

// Service sequences the upgrade workflow.
type Service struct {
	logger                *zap.Logger
	versionProber         VersionProber
	dependencyScanner     DependencyScanner
	compatibilityAssessor CompatibilityAssessor
	migrationPreviewer    MigrationPreviewer
	migrationExecutor     MigrationExecutor
	reportWriter          ReportWriter
	confirmationPrompter  ConfirmationPrompter
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.VersionProber == nil {
		return nil, errVersionProberMissing
	}
	if dependencies.DependencyScanner == nil {
		return nil, errDependencyScannerMissing
	}
	if dependencies.CompatibilityAssessor == nil {
		return nil, errAssessorMissing
	}
	if dependencies.MigrationPreviewer == nil {
		return nil, errPreviewerMissing
	}
	if dependencies.MigrationExecutor == nil {
		return nil, errExecutorMissing
	}
	if dependencies.ReportWriter == nil {
		return nil, errReportWriterMissing
	}
	if dependencies.ConfirmationPrompter == nil {
		return nil, errPrompterMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:                logger,
		versionProber:         dependencies.VersionProber,
		dependencyScanner:     dependencies.DependencyScanner,
		compatibilityAssessor: dependencies.CompatibilityAssessor,
		migrationPreviewer:    dependencies.MigrationPreviewer,
		migrationExecutor:     dependencies.MigrationExecutor,
		reportWriter:          dependencies.ReportWriter,
		confirmationPrompter:  dependencies.ConfirmationPrompter,
	}, nil
}

// Run executes the complete workflow. Failed outcomes are logged and returned with an error;
// Cancelled and InvalidInput outcomes are not errors.
func (service *Service) Run(executionContext context.Context, options Options) (Outcome, error) {
	normalizedOptions := normalizeOptions(options)
	if validationError := validateOptions(normalizedOptions, true); validationError != nil {
		return Outcome{State: StateFailed}, validationError
	}

	outcome, assessmentError := service.assess(executionContext, normalizedOptions)
	if assessmentError != nil || outcome.State != StatePreviewMigration {
		return outcome, assessmentError
	}

	service.logger.Info(fmt.Sprintf(proceedingTemplateConstant, normalizedOptions.TargetVersion))

	changeSet, previewError := service.migrationPreviewer.Preview(executionContext, normalizedOptions.SourceDirectory)
	if previewError != nil {
		return service.fail(outcome, updateFailedMessageConstant, updateErrorTemplateConstant, previewError)
	}
	outcome.ProposedChanges = changeSet

	if writeError := service.reportWriter.WriteProposedChanges(normalizedOptions.ChangesLogPath, changeSet); writeError != nil {
		return service.fail(outcome, updateFailedMessageConstant, updateErrorTemplateConstant, writeError)
	}
	service.logger.Info(fmt.Sprintf(dryRunCompletedTemplateConstant, normalizedOptions.ChangesLogPath))

	outcome = service.transition(outcome, StateAwaitConfirmation)
	decision, confirmationError := service.confirm(normalizedOptions)
	if confirmationError != nil {
		return service.fail(outcome, confirmationFailedMessageConstant, confirmationErrorTemplateConstant, confirmationError)
	}
	outcome.Decision = decision

	switch decision {
	case DecisionDeclined:
		service.logger.Info(updateCanceledMessageConstant)
		return service.transition(outcome, StateCancelled), nil
	case DecisionInvalid:
		service.logger.Error(invalidInputMessageConstant)
		return service.transition(outcome, StateInvalidInput), nil
	}

	outcome = service.transition(outcome, StateExecute)
	migrationResult, executionError := service.migrationExecutor.Execute(
		executionContext,
		normalizedOptions.SourceDirectory,
		normalizedOptions.DestinationDirectory,
	)
	outcome.MigrationResult = migrationResult
	if executionError != nil {
		return service.fail(outcome, updateFailedMessageConstant, updateErrorTemplateConstant, executionError)
	}

	service.logger.Info(
		fmt.Sprintf(updateSucceededTemplateConstant, normalizedOptions.TargetVersion),
		zap.String(logFieldDestinationDirectoryConstant, normalizedOptions.DestinationDirectory),
		zap.Int(logFieldCopiedFileCountConstant, len(migrationResult.CopiedFiles)),
	)
	return outcome, nil
}

// Assess runs the version probe and compatibility check without previewing or migrating.
// A ready tree ends in PreviewMigration.
func (service *Service) Assess(executionContext context.Context, options Options) (Outcome, error) {
	normalizedOptions := normalizeOptions(options)
	if validationError := validateOptions(normalizedOptions, false); validationError != nil {
		return Outcome{State: StateFailed}, validationError
	}

	outcome, assessmentError := service.assess(executionContext, normalizedOptions)
	if assessmentError != nil {
		return outcome, assessmentError
	}
	if outcome.State == StatePreviewMigration {
		service.logger.Info(fmt.Sprintf(compatibleTemplateConstant, normalizedOptions.TargetVersion))
	}
	return outcome, nil
}

func (service *Service) assess(executionContext context.Context, options Options) (Outcome, error) {
	outcome := service.transition(Outcome{}, StateProbeVersion)

	detectedVersion, probeError := service.versionProber.Probe(executionContext, options.SourceDirectory)
	if probeError != nil {
		return service.fail(outcome, versionDetectionFailedMessageConstant, versionDetectionErrorTemplateConstant, probeError)
	}
	outcome.DetectedVersion = detectedVersion
	service.logger.Info(
		fmt.Sprintf(detectedVersionTemplateConstant, detectedVersion.String()),
		zap.String(logFieldSourceDirectoryConstant, options.SourceDirectory),
	)

	if detectedVersion.MatchesTarget(options.TargetVersion) {
		service.logger.Info(fmt.Sprintf(alreadyTargetTemplateConstant, options.TargetVersion))
		return service.transition(outcome, StateAlreadyTarget), nil
	}

	outcome = service.transition(outcome, StateCheckDependencies)

	scannedDependencies, scanError := service.dependencyScanner.Scan(executionContext)
	if scanError != nil {
		return service.fail(outcome, dependencyScanFailedMessageConstant, dependencyScanErrorTemplateConstant, scanError)
	}
	outcome.Dependencies = scannedDependencies

	assessment, assessError := service.compatibilityAssessor.Assess(executionContext, scannedDependencies)
	if assessError != nil {
		return service.fail(outcome, dependencyScanFailedMessageConstant, dependencyScanErrorTemplateConstant, assessError)
	}
	outcome.Assessment = assessment

	if !assessment.HasIncompatible() {
		return service.transition(outcome, StatePreviewMigration), nil
	}

	if writeError := service.reportWriter.WriteCompatibilityConcerns(options.ConcernsLogPath, assessment.Incompatible); writeError != nil {
		return service.fail(outcome, dependencyScanFailedMessageConstant, dependencyScanErrorTemplateConstant, writeError)
	}
	service.reportIncompatible(options, assessment)
	return service.transition(outcome, StateReportIncompatible), nil
}

func (service *Service) reportIncompatible(options Options, assessment compatibility.Assessment) {
	service.logger.Warn(
		fmt.Sprintf(incompatibleHeaderTemplateConstant, options.TargetVersion),
		zap.Int(logFieldDependencyCountConstant, len(assessment.Incompatible)),
	)
	for _, incompatibleDependency := range assessment.Incompatible {
		service.logger.Warn(incompatibleDependency.String())
	}
	service.logger.Warn(fmt.Sprintf(reviewConcernsTemplateConstant, options.ConcernsLogPath))
}

func (service *Service) confirm(options Options) (Decision, error) {
	if options.AssumeYes {
		return DecisionAccepted, nil
	}
	decision, promptError := service.confirmationPrompter.Confirm(ConfirmationPrompt)
	if promptError != nil {
		return DecisionInvalid, promptError
	}
	service.logger.Debug(confirmationReceivedMessageConstant, zap.String(logFieldDecisionConstant, decision.String()))
	return decision, nil
}

func (service *Service) transition(outcome Outcome, nextState State) Outcome {
	outcome.State = nextState
	service.logger.Debug(workflowStateChangedMessageConstant, zap.String(logFieldStateConstant, string(nextState)))
	return outcome
}

func (service *Service) fail(outcome Outcome, logMessage string, errorTemplate string, cause error) (Outcome, error) {
	service.logger.Error(logMessage, zap.Error(cause))
	return service.transition(outcome, StateFailed), fmt.Errorf(errorTemplate, cause)
}

func normalizeOptions(options Options) Options {
	options.SourceDirectory = strings.TrimSpace(options.SourceDirectory)
	options.DestinationDirectory = strings.TrimSpace(options.DestinationDirectory)
	options.TargetVersion = strings.TrimSpace(options.TargetVersion)
	options.ChangesLogPath = strings.TrimSpace(options.ChangesLogPath)
	options.ConcernsLogPath = strings.TrimSpace(options.ConcernsLogPath)
	if len(options.TargetVersion) == 0 {
		options.TargetVersion = DefaultTargetVersion
	}
	if len(options.ChangesLogPath) == 0 {
		options.ChangesLogPath = DefaultChangesLogPath
	}
	if len(options.ConcernsLogPath) == 0 {
		options.ConcernsLogPath = DefaultConcernsLogPath
	}
	return options
}

func validateOptions(options Options, requireDestination bool) error {
	if len(options.SourceDirectory) == 0 {
		return InvalidInputError{FieldName: sourceDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if requireDestination && len(options.DestinationDirectory) == 0 {
		return InvalidInputError{FieldName: destinationDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}
