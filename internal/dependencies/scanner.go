package dependencies

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	warningFlagConstant                 = "-w"
	warningSilenceValueConstant         = "silence"
	executorNotConfiguredMessage        = "dependency tree executor not configured"
	dependencyScanErrorTemplateConstant = "unable to list installed dependencies: %w"
)

// ErrExecutorNotConfigured indicates that the scanner was built without a dependency tree executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// DependencyTreeExecutor runs the dependency tree lister.
type DependencyTreeExecutor interface {
	ExecuteDependencyTree(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Scanner enumerates installed dependencies.
type Scanner struct {
	executor DependencyTreeExecutor
}

// NewScanner constructs a Scanner.
func NewScanner(executor DependencyTreeExecutor) (*Scanner, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Scanner{executor: executor}, nil
}

// Scan runs the dependency tree lister with warnings silenced and parses its standard output.
func (scanner *Scanner) Scan(executionContext context.Context) ([]Dependency, error) {
	executionResult, executionError := scanner.executor.ExecuteDependencyTree(executionContext, execshell.CommandDetails{
		Arguments: []string{warningFlagConstant, warningSilenceValueConstant},
	})
	if executionError != nil {
		return nil, fmt.Errorf(dependencyScanErrorTemplateConstant, executionError)
	}
	return ParseDependencyTree(executionResult.StandardOutput), nil
}
