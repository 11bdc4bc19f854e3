package cli

import (
	_ "embed"
	"fmt"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	embeddedConfigurationParseErrorTemplateConstant  = "unable to parse embedded configuration: %w"
	embeddedConfigurationDecodeErrorTemplateConstant = "unable to decode embedded configuration: %w"
	mapstructureTagNameConstant                      = "mapstructure"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded default configuration and its type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// DefaultApplicationConfiguration decodes the embedded defaults without consulting files or the environment.
func DefaultApplicationConfiguration() (ApplicationConfiguration, error) {
	var rawConfiguration map[string]any
	if parseError := yaml.Unmarshal(embeddedDefaultConfigurationContent, &rawConfiguration); parseError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(embeddedConfigurationParseErrorTemplateConstant, parseError)
	}

	var configuration ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          mapstructureTagNameConstant,
		Result:           &configuration,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(embeddedConfigurationDecodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(rawConfiguration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(embeddedConfigurationDecodeErrorTemplateConstant, decodeError)
	}

	return configuration, nil
}
