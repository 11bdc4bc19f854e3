package upgrade

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pyport/internal/compatibility"
	"github.com/temirov/pyport/internal/dependencies"
	"github.com/temirov/pyport/internal/execshell"
	"github.com/temirov/pyport/internal/interpreter"
	"github.com/temirov/pyport/internal/migration"
	"github.com/temirov/pyport/internal/reports"
	"github.com/temirov/pyport/internal/ui"
	flagutils "github.com/temirov/pyport/internal/utils/flags"
)

const (
	upgradeCommandUseConstant              = "upgrade"
	upgradeCommandShortDescriptionConstant = "Migrate a Python source tree to the target version"
	upgradeCommandLongDescriptionConstant  = "upgrade detects the interpreter version, checks installed dependencies against the target Python version, previews 2to3 changes, and after confirmation copies the source tree to the destination and rewrites it there."
	checkCommandUseConstant                = "check"
	checkCommandShortDescriptionConstant   = "Check readiness for the target Python version"
	checkCommandLongDescriptionConstant    = "check detects the interpreter version and reports installed dependencies that are incompatible with the target Python version without previewing or migrating anything."
	sourceFlagNameConstant                 = "source"
	sourceFlagUsageConstant                = "Directory containing the Python sources to migrate"
	destinationFlagNameConstant            = "destination"
	destinationFlagUsageConstant           = "Existing directory that receives the migrated copy"
	targetVersionFlagNameConstant          = "target-version"
	targetVersionFlagUsageConstant         = "Python version to migrate to"
	assumeYesFlagNameConstant              = "yes"
	assumeYesFlagShorthandConstant         = "y"
	assumeYesFlagUsageConstant             = "Proceed without the confirmation prompt"
	sourceMissingTemplateConstant          = "Source directory '%s' not found.\n"
	destinationMissingTemplateConstant     = "Destination directory '%s' not found.\n"
	directoryCheckErrorTemplateConstant    = "unable to inspect directory %s: %w"
	executorCreationErrorTemplateConstant  = "unable to construct command executor: %w"
	collaboratorErrorTemplateConstant      = "unable to construct %s: %w"
	proberCollaboratorNameConstant         = "version prober"
	scannerCollaboratorNameConstant        = "dependency scanner"
	checkerCollaboratorNameConstant        = "compatibility checker"
	previewerCollaboratorNameConstant      = "migration previewer"
	executorCollaboratorNameConstant       = "migration executor"
	writerCollaboratorNameConstant         = "report writer"
	workflowFinishedMessageConstant        = "workflow finished"
	logFieldWorkflowStateConstant          = "state"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// WorkflowRunner executes the upgrade workflow and its assessment-only variant.
type WorkflowRunner interface {
	Run(executionContext context.Context, options Options) (Outcome, error)
	Assess(executionContext context.Context, options Options) (Outcome, error)
}

// ServiceProvider constructs a workflow runner from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (WorkflowRunner, error)

// CommandBuilder assembles the upgrade and check Cobra commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandRunner                execshell.CommandRunner
	FileSystem                   afero.Fs
	InputReader                  io.Reader
	ServiceProvider              ServiceProvider
}

type commandOptions struct {
	configuration CommandConfiguration
	assumeYes     bool
}

// Build constructs the upgrade command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           upgradeCommandUseConstant,
		Short:         upgradeCommandShortDescriptionConstant,
		Long:          upgradeCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runUpgrade,
	}

	builder.bindDirectoryFlags(command, true)
	flagutils.AddToggleFlag(command.Flags(), nil, assumeYesFlagNameConstant, assumeYesFlagShorthandConstant, false, assumeYesFlagUsageConstant)

	return command, nil
}

// BuildCheck constructs the check command.
func (builder *CommandBuilder) BuildCheck() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           checkCommandUseConstant,
		Short:         checkCommandShortDescriptionConstant,
		Long:          checkCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runCheck,
	}

	builder.bindDirectoryFlags(command, false)

	return command, nil
}

func (builder *CommandBuilder) bindDirectoryFlags(command *cobra.Command, includeDestination bool) {
	command.Flags().String(sourceFlagNameConstant, "", sourceFlagUsageConstant)
	if includeDestination {
		command.Flags().String(destinationFlagNameConstant, "", destinationFlagUsageConstant)
	}
	command.Flags().String(targetVersionFlagNameConstant, "", targetVersionFlagUsageConstant)
}

func (builder *CommandBuilder) runUpgrade(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	fileSystem := builder.resolveFileSystem()
	sourcePresent, sourceError := directoryExists(fileSystem, options.configuration.SourceDirectory)
	if sourceError != nil {
		return sourceError
	}
	if !sourcePresent {
		fmt.Fprintf(command.OutOrStdout(), sourceMissingTemplateConstant, options.configuration.SourceDirectory)
		return nil
	}
	destinationPresent, destinationError := directoryExists(fileSystem, options.configuration.DestinationDirectory)
	if destinationError != nil {
		return destinationError
	}
	if !destinationPresent {
		fmt.Fprintf(command.OutOrStdout(), destinationMissingTemplateConstant, options.configuration.DestinationDirectory)
		return nil
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.resolveService(command, logger, fileSystem, options.configuration)
	if serviceError != nil {
		return serviceError
	}

	outcome, runError := service.Run(command.Context(), builder.workflowOptions(options))
	logger.Debug(workflowFinishedMessageConstant, zap.String(logFieldWorkflowStateConstant, string(outcome.State)))
	return runError
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	fileSystem := builder.resolveFileSystem()
	sourcePresent, sourceError := directoryExists(fileSystem, options.configuration.SourceDirectory)
	if sourceError != nil {
		return sourceError
	}
	if !sourcePresent {
		fmt.Fprintf(command.OutOrStdout(), sourceMissingTemplateConstant, options.configuration.SourceDirectory)
		return nil
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.resolveService(command, logger, fileSystem, options.configuration)
	if serviceError != nil {
		return serviceError
	}

	outcome, assessError := service.Assess(command.Context(), builder.workflowOptions(options))
	logger.Debug(workflowFinishedMessageConstant, zap.String(logFieldWorkflowStateConstant, string(outcome.State)))
	return assessError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	flagSet := command.Flags()
	if flagSet.Changed(sourceFlagNameConstant) {
		sourceValue, _ := flagSet.GetString(sourceFlagNameConstant)
		configuration.SourceDirectory = sourceValue
	}
	if flagSet.Lookup(destinationFlagNameConstant) != nil && flagSet.Changed(destinationFlagNameConstant) {
		destinationValue, _ := flagSet.GetString(destinationFlagNameConstant)
		configuration.DestinationDirectory = destinationValue
	}
	if flagSet.Changed(targetVersionFlagNameConstant) {
		targetVersionValue, _ := flagSet.GetString(targetVersionFlagNameConstant)
		configuration.TargetVersion = targetVersionValue
	}

	assumeYes := false
	if assumeYesFlag := flagSet.Lookup(assumeYesFlagNameConstant); assumeYesFlag != nil {
		assumeYesValue, parseError := flagSet.GetBool(assumeYesFlagNameConstant)
		if parseError != nil {
			return commandOptions{}, parseError
		}
		assumeYes = assumeYesValue
	}

	return commandOptions{configuration: configuration.Sanitize(), assumeYes: assumeYes}, nil
}

func (builder *CommandBuilder) workflowOptions(options commandOptions) Options {
	return Options{
		SourceDirectory:      options.configuration.SourceDirectory,
		DestinationDirectory: options.configuration.DestinationDirectory,
		TargetVersion:        options.configuration.TargetVersion,
		ChangesLogPath:       options.configuration.ChangesLogPath,
		ConcernsLogPath:      options.configuration.ConcernsLogPath,
		AssumeYes:            options.assumeYes,
	}
}

func (builder *CommandBuilder) resolveService(command *cobra.Command, logger *zap.Logger, fileSystem afero.Fs, configuration CommandConfiguration) (WorkflowRunner, error) {
	shellExecutor, executorError := builder.resolveExecutor(logger, configuration.Executables)
	if executorError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	prober, proberError := interpreter.NewProber(shellExecutor)
	if proberError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, proberCollaboratorNameConstant, proberError)
	}
	scanner, scannerError := dependencies.NewScanner(shellExecutor)
	if scannerError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, scannerCollaboratorNameConstant, scannerError)
	}
	checker, checkerError := compatibility.NewChecker(shellExecutor, configuration.TargetEnvironment)
	if checkerError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, checkerCollaboratorNameConstant, checkerError)
	}
	previewer, previewerError := migration.NewPreviewer(logger, shellExecutor, fileSystem, configuration.SourceExtension)
	if previewerError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, previewerCollaboratorNameConstant, previewerError)
	}
	migrationExecutor, migrationExecutorError := migration.NewExecutor(logger, shellExecutor, fileSystem)
	if migrationExecutorError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, executorCollaboratorNameConstant, migrationExecutorError)
	}
	reportWriter, writerError := reports.NewWriter(fileSystem)
	if writerError != nil {
		return nil, fmt.Errorf(collaboratorErrorTemplateConstant, writerCollaboratorNameConstant, writerError)
	}

	serviceDependencies := ServiceDependencies{
		Logger:                logger,
		VersionProber:         prober,
		DependencyScanner:     scanner,
		CompatibilityAssessor: checker,
		MigrationPreviewer:    previewer,
		MigrationExecutor:     migrationExecutor,
		ReportWriter:          reportWriter,
		ConfirmationPrompter:  NewIOConfirmationPrompter(builder.resolveInput(command), command.OutOrStdout()),
	}

	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(serviceDependencies)
	}
	return NewService(serviceDependencies)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger, executables ExecutablesConfiguration) (*execshell.ShellExecutor, error) {
	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() && builder.ConsoleLoggerProvider != nil {
		if consoleLogger := builder.ConsoleLoggerProvider(); consoleLogger != nil {
			eventObserver = ui.NewConsoleCommandEventLogger(consoleLogger)
		}
	}

	return execshell.NewShellExecutor(logger, commandRunner, eventObserver, execshell.ExecutablePaths{
		Python:         executables.Python,
		DependencyTree: executables.DependencyTree,
		RewriteTool:    executables.Rewrite,
	})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return afero.NewOsFs()
}

func (builder *CommandBuilder) resolveInput(command *cobra.Command) io.Reader {
	if builder.InputReader != nil {
		return builder.InputReader
	}
	return command.InOrStdin()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func directoryExists(fileSystem afero.Fs, directoryPath string) (bool, error) {
	if len(strings.TrimSpace(directoryPath)) == 0 {
		return false, nil
	}
	exists, existsError := afero.DirExists(fileSystem, directoryPath)
	if existsError != nil {
		return false, fmt.Errorf(directoryCheckErrorTemplateConstant, directoryPath, existsError)
	}
	return exists, nil
}
