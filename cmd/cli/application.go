package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/pyport/internal/upgrade"
	"github.com/temirov/pyport/internal/utils"
	flagutils "github.com/temirov/pyport/internal/utils/flags"
)

const (
	applicationNameConstant                 = "pyport"
	applicationShortDescriptionConstant     = "Migrate Python codebases to a newer interpreter version"
	applicationLongDescriptionConstant      = "pyport checks the interpreter version and installed dependencies of a Python codebase against a target version, previews 2to3 changes, and migrates a copy of the tree after confirmation."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant           = "tools"
	upgradeConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".upgrade"
	environmentPrefixConstant               = "PYPORT"
	searchPathEnvironmentVariableConstant   = "PYPORT_CONFIG_SEARCH_PATH"
	environmentFileNameConstant             = ".env"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	workingDirectorySearchPathConstant      = "."
	userConfigurationSearchPathConstant     = "~/.pyport"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	environmentFilesFieldConstant           = "environment_files"
	runIdentifierFieldConstant              = "run_id"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	versionTemplateConstant                 = "{{.Name}} version: {{.Version}}\n"
	developmentVersionConstant              = "dev"
	buildInfoDevelopmentVersionConstant     = "(devel)"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands.
type ApplicationToolsConfiguration struct {
	Upgrade upgrade.CommandConfiguration `mapstructure:"upgrade"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	runIdentifier          string
	runIdentifierProvider  func() string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		resolveConfigurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.SetEnvironmentFiles(environmentFileNameConstant)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		runIdentifierProvider:  uuid.NewString,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	upgradeBuilder := upgrade.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() upgrade.CommandConfiguration {
			return application.configuration.Tools.Upgrade
		},
	}

	upgradeCommand, upgradeBuildError := upgradeBuilder.Build()
	if upgradeBuildError == nil {
		cobraCommand.AddCommand(upgradeCommand)
	}

	checkCommand, checkBuildError := upgradeBuilder.BuildCheck()
	if checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// SetOutput redirects command output, including prompts and help, to the provided writer.
func (application *Application) SetOutput(writer io.Writer) {
	application.rootCommand.SetOut(writer)
	application.rootCommand.SetErr(writer)
}

// Execute runs the command hierarchy with the process arguments and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// ExecuteWithArguments runs the command hierarchy with the provided arguments and ensures logger flushing.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	normalizedArguments := flagutils.NormalizeToggleArguments(arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range upgrade.DefaultConfigurationValues(upgradeConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel))),
		utils.LogFormat(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogFormat))),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.runIdentifier = application.runIdentifierProvider()
	application.logger = loggerOutputs.DiagnosticLogger.With(zap.String(runIdentifierFieldConstant, application.runIdentifier))
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(environmentFilesFieldConstant, application.configurationMetadata.EnvironmentFilesLoaded),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRunIdentifier(updatedContext, application.runIdentifier)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := application.syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveConfigurationSearchPaths() []string {
	if overriddenSearchPath := strings.TrimSpace(os.Getenv(searchPathEnvironmentVariableConstant)); len(overriddenSearchPath) > 0 {
		return filepath.SplitList(overriddenSearchPath)
	}
	return []string{workingDirectorySearchPathConstant, userConfigurationSearchPathConstant}
}

func resolveApplicationVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return developmentVersionConstant
	}
	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == buildInfoDevelopmentVersionConstant {
		return developmentVersionConstant
	}
	return moduleVersion
}
