package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	runIdentifierContextKeyConstant         = commandContextKey("runIdentifier")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return accessor.withValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, configurationFilePathContextKeyConstant)
}

// WithRunIdentifier attaches the identifier of the current CLI run to the provided context.
func (accessor CommandContextAccessor) WithRunIdentifier(parentContext context.Context, runIdentifier string) context.Context {
	return accessor.withValue(parentContext, runIdentifierContextKeyConstant, runIdentifier)
}

// RunIdentifier extracts the run identifier from the provided context.
func (accessor CommandContextAccessor) RunIdentifier(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, runIdentifierContextKeyConstant)
}

func (accessor CommandContextAccessor) withValue(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, valueAvailable := executionContext.Value(key).(string)
	if !valueAvailable {
		return "", false
	}
	return value, true
}
