package compatibility

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/pyport/internal/dependencies"
	"github.com/temirov/pyport/internal/execshell"
)

const (
	inlineScriptFlagConstant                 = "-c"
	compatibleVerdictConstant                = "true"
	incompatibleVerdictConstant              = "false"
	executorNotConfiguredMessage             = "marker evaluator executor not configured"
	environmentEncodingErrorTemplateConstant = "unable to encode target environment: %w"
	evaluationErrorTemplateConstant          = "unable to evaluate compatibility of %s: %w"
)

//go:embed evaluator.py
var evaluatorScript string

// ErrExecutorNotConfigured indicates that the checker was built without a Python executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// PythonExecutor runs the configured Python interpreter.
type PythonExecutor interface {
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Assessment splits scanned dependencies by verdict, preserving scan order.
type Assessment struct {
	Compatible   []dependencies.Dependency
	Incompatible []dependencies.Dependency
}

// HasIncompatible reports whether any dependency failed the check.
func (assessment Assessment) HasIncompatible() bool {
	return len(assessment.Incompatible) > 0
}

// Checker evaluates dependencies one at a time through the marker evaluator.
type Checker struct {
	executor          PythonExecutor
	targetEnvironment string
}

// NewChecker constructs a Checker. targetEnvironment overrides marker values; nil or empty keeps the active interpreter's environment.
func NewChecker(executor PythonExecutor, targetEnvironment map[string]string) (*Checker, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	normalizedEnvironment := make(map[string]string, len(targetEnvironment))
	for markerName, markerValue := range targetEnvironment {
		trimmedName := strings.TrimSpace(markerName)
		if len(trimmedName) == 0 {
			continue
		}
		normalizedEnvironment[trimmedName] = strings.TrimSpace(markerValue)
	}

	encodedEnvironment, encodingError := json.Marshal(normalizedEnvironment)
	if encodingError != nil {
		return nil, fmt.Errorf(environmentEncodingErrorTemplateConstant, encodingError)
	}

	return &Checker{executor: executor, targetEnvironment: string(encodedEnvironment)}, nil
}

// Check reports whether the dependency is compatible with the marker environment.
func (checker *Checker) Check(executionContext context.Context, dependency dependencies.Dependency) (bool, error) {
	executionResult, executionError := checker.executor.ExecutePython(executionContext, execshell.CommandDetails{
		Arguments: []string{inlineScriptFlagConstant, evaluatorScript, dependency.Name, dependency.Version, checker.targetEnvironment},
	})
	if executionError != nil {
		return false, fmt.Errorf(evaluationErrorTemplateConstant, dependency, executionError)
	}

	switch strings.TrimSpace(executionResult.StandardOutput) {
	case compatibleVerdictConstant:
		return true, nil
	case incompatibleVerdictConstant:
		return false, nil
	default:
		return false, fmt.Errorf(evaluationErrorTemplateConstant, dependency, execshell.UnparseableOutputError{Command: execshell.CommandPython, Output: executionResult.StandardOutput})
	}
}

// Assess checks every dependency in order. The first evaluation error aborts the assessment.
func (checker *Checker) Assess(executionContext context.Context, scannedDependencies []dependencies.Dependency) (Assessment, error) {
	assessment := Assessment{}
	for _, dependency := range scannedDependencies {
		compatible, checkError := checker.Check(executionContext, dependency)
		if checkError != nil {
			return Assessment{}, checkError
		}
		if compatible {
			assessment.Compatible = append(assessment.Compatible, dependency)
			continue
		}
		assessment.Incompatible = append(assessment.Incompatible, dependency)
	}
	return assessment, nil
}
