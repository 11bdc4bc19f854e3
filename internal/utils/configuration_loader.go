package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pathutils "github.com/temirov/pyport/internal/utils/path"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	environmentFileLoadErrorTemplateConstant        = "failed to load environment file %s: %w"
)

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentFiles          []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
	homeExpander              *pathutils.HomeExpander
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed         string
	EnvironmentFilesLoaded []string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
// Search paths starting with ~ are resolved against the user's home directory.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
		homeExpander:           pathutils.NewHomeExpander(),
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// SetEnvironmentFiles lists dotenv files loaded into the process environment before configuration is resolved.
// Missing files are skipped and variables already present in the environment are never overwritten.
func (loader *ConfigurationLoader) SetEnvironmentFiles(environmentFiles ...string) {
	if loader == nil {
		return
	}
	loader.environmentFiles = append([]string{}, environmentFiles...)
}

// LoadConfiguration resolves targetConfiguration from, in increasing precedence: defaultValues, the embedded
// configuration, the user's configuration file, and prefixed environment variables. Dotenv files are loaded first.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	loadedEnvironmentFiles, environmentError := loader.loadEnvironmentFiles()
	if environmentError != nil {
		return LoadedConfiguration{}, environmentError
	}

	viperInstance := viper.New()
	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	layers := []func(*viper.Viper) error{
		loader.mergeEmbeddedLayer,
		func(viperInstance *viper.Viper) error {
			return loader.mergeFileLayer(viperInstance, configurationFilePath)
		},
		loader.bindEnvironmentLayer,
	}
	for _, applyLayer := range layers {
		if layerError := applyLayer(viperInstance); layerError != nil {
			return LoadedConfiguration{}, layerError
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{
		ConfigFileUsed:         viperInstance.ConfigFileUsed(),
		EnvironmentFilesLoaded: loadedEnvironmentFiles,
	}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedLayer(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}

	embeddedType := loader.embeddedConfigurationType
	if len(embeddedType) == 0 {
		embeddedType = loader.configurationType
	}
	viperInstance.SetConfigType(embeddedType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

// mergeFileLayer merges an explicit configuration file, or the first named file found on the search paths.
// Absence of a searched file is not an error.
func (loader *ConfigurationLoader) mergeFileLayer(viperInstance *viper.Viper, configurationFilePath string) error {
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)
	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(loader.homeExpander.Expand(searchPath))
	}
	if explicitPath := strings.TrimSpace(configurationFilePath); len(explicitPath) > 0 {
		viperInstance.SetConfigFile(loader.homeExpander.Expand(explicitPath))
	}

	readError := viperInstance.MergeInConfig()
	var notFoundError viper.ConfigFileNotFoundError
	if readError == nil || errors.As(readError, &notFoundError) {
		return nil
	}
	return fmt.Errorf(configurationReadErrorTemplateConstant, readError)
}

func (loader *ConfigurationLoader) bindEnvironmentLayer(viperInstance *viper.Viper) error {
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()
	return nil
}

func (loader *ConfigurationLoader) loadEnvironmentFiles() ([]string, error) {
	var loadedEnvironmentFiles []string
	for _, environmentFile := range loader.environmentFiles {
		resolvedEnvironmentFile := loader.homeExpander.Expand(strings.TrimSpace(environmentFile))
		if len(resolvedEnvironmentFile) == 0 {
			continue
		}
		if _, statError := os.Stat(resolvedEnvironmentFile); statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf(environmentFileLoadErrorTemplateConstant, resolvedEnvironmentFile, statError)
		}
		if loadError := godotenv.Load(resolvedEnvironmentFile); loadError != nil {
			return nil, fmt.Errorf(environmentFileLoadErrorTemplateConstant, resolvedEnvironmentFile, loadError)
		}
		loadedEnvironmentFiles = append(loadedEnvironmentFiles, resolvedEnvironmentFile)
	}
	return loadedEnvironmentFiles, nil
}
