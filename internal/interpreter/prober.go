package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	pythonVersionFlagConstant         = "--version"
	executorNotConfiguredMessage      = "python executor not configured"
	versionQueryErrorTemplateConstant = "unable to query interpreter version in %s: %w"
	versionParseErrorTemplateConstant = "unable to determine interpreter version in %s: %w"
)

// ErrExecutorNotConfigured indicates that the prober was built without a Python executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// PythonExecutor runs the configured Python interpreter.
type PythonExecutor interface {
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Prober asks the interpreter for its version.
type Prober struct {
	executor PythonExecutor
}

// NewProber constructs a Prober.
func NewProber(executor PythonExecutor) (*Prober, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Prober{executor: executor}, nil
}

// Probe runs "python --version" inside sourceDirectory and parses the reported version.
// Standard output and standard error are searched together since Python 2 reports on stderr.
func (prober *Prober) Probe(executionContext context.Context, sourceDirectory string) (Version, error) {
	executionResult, executionError := prober.executor.ExecutePython(executionContext, execshell.CommandDetails{
		Arguments:        []string{pythonVersionFlagConstant},
		WorkingDirectory: sourceDirectory,
	})
	if executionError != nil {
		return Version{}, fmt.Errorf(versionQueryErrorTemplateConstant, sourceDirectory, executionError)
	}

	version, extractError := ExtractVersion(executionResult.CombinedOutput())
	if extractError != nil {
		return Version{}, fmt.Errorf(versionParseErrorTemplateConstant, sourceDirectory, extractError)
	}

	return version, nil
}
