package upgrade

import (
	"strings"

	pathutils "github.com/temirov/pyport/internal/utils/path"
)

const (
	defaultSourceDirectoryConstant      = "path_to_source_directory"
	defaultDestinationDirectoryConstant = "path_to_destination_directory"
	defaultSourceExtensionConstant      = ".py"
	defaultPythonExecutableConstant     = "python"
	defaultDependencyTreeConstant       = "pipdeptree"
	defaultRewriteExecutableConstant    = "2to3"
	configurationKeyTemplateSeparator   = "."
)

var upgradeConfigurationPathSanitizer = pathutils.NewDirectoryPathSanitizer()

// ExecutablesConfiguration names the external tools the workflow invokes.
type ExecutablesConfiguration struct {
	Python         string `mapstructure:"python"`
	DependencyTree string `mapstructure:"dependency_tree"`
	Rewrite        string `mapstructure:"rewrite"`
}

// CommandConfiguration captures persisted configuration for the upgrade and check commands.
type CommandConfiguration struct {
	SourceDirectory      string                   `mapstructure:"source"`
	DestinationDirectory string                   `mapstructure:"destination"`
	TargetVersion        string                   `mapstructure:"target_version"`
	TargetEnvironment    map[string]string        `mapstructure:"target_environment"`
	SourceExtension      string                   `mapstructure:"source_extension"`
	ChangesLogPath       string                   `mapstructure:"changes_log"`
	ConcernsLogPath      string                   `mapstructure:"concerns_log"`
	Executables          ExecutablesConfiguration `mapstructure:"executables"`
}

// DefaultCommandConfiguration returns baseline configuration values for the upgrade workflow.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SourceDirectory:      defaultSourceDirectoryConstant,
		DestinationDirectory: defaultDestinationDirectoryConstant,
		TargetVersion:        DefaultTargetVersion,
		TargetEnvironment:    map[string]string{},
		SourceExtension:      defaultSourceExtensionConstant,
		ChangesLogPath:       DefaultChangesLogPath,
		ConcernsLogPath:      DefaultConcernsLogPath,
		Executables: ExecutablesConfiguration{
			Python:         defaultPythonExecutableConstant,
			DependencyTree: defaultDependencyTreeConstant,
			Rewrite:        defaultRewriteExecutableConstant,
		},
	}
}

// DefaultConfigurationValues flattens the defaults into viper keys under the provided prefix.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		trimmedPrefix := strings.TrimSpace(keyPrefix)
		if len(trimmedPrefix) == 0 {
			return key
		}
		return trimmedPrefix + configurationKeyTemplateSeparator + key
	}

	return map[string]any{
		qualify("source"):                      defaults.SourceDirectory,
		qualify("destination"):                 defaults.DestinationDirectory,
		qualify("target_version"):              defaults.TargetVersion,
		qualify("target_environment"):          defaults.TargetEnvironment,
		qualify("source_extension"):            defaults.SourceExtension,
		qualify("changes_log"):                 defaults.ChangesLogPath,
		qualify("concerns_log"):                defaults.ConcernsLogPath,
		qualify("executables.python"):          defaults.Executables.Python,
		qualify("executables.dependency_tree"): defaults.Executables.DependencyTree,
		qualify("executables.rewrite"):         defaults.Executables.Rewrite,
	}
}

// Sanitize trims configured values, expands home-relative directories, and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.SourceDirectory = upgradeConfigurationPathSanitizer.Sanitize(configuration.SourceDirectory)
	sanitized.DestinationDirectory = upgradeConfigurationPathSanitizer.Sanitize(configuration.DestinationDirectory)
	sanitized.TargetVersion = valueOrDefault(configuration.TargetVersion, defaults.TargetVersion)
	sanitized.SourceExtension = valueOrDefault(configuration.SourceExtension, defaults.SourceExtension)
	sanitized.ChangesLogPath = valueOrDefault(configuration.ChangesLogPath, defaults.ChangesLogPath)
	sanitized.ConcernsLogPath = valueOrDefault(configuration.ConcernsLogPath, defaults.ConcernsLogPath)
	sanitized.Executables = ExecutablesConfiguration{
		Python:         valueOrDefault(configuration.Executables.Python, defaults.Executables.Python),
		DependencyTree: valueOrDefault(configuration.Executables.DependencyTree, defaults.Executables.DependencyTree),
		Rewrite:        valueOrDefault(configuration.Executables.Rewrite, defaults.Executables.Rewrite),
	}

	sanitized.TargetEnvironment = make(map[string]string, len(configuration.TargetEnvironment))
	for markerName, markerValue := range configuration.TargetEnvironment {
		trimmedName := strings.TrimSpace(markerName)
		if len(trimmedName) == 0 {
			continue
		}
		sanitized.TargetEnvironment[trimmedName] = strings.TrimSpace(markerValue)
	}

	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
