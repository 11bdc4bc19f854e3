package execshell

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"os"
	"os/exec"
	"slices"
)

const environmentAssignmentSeparatorConstant = "="

// OSCommandRunner launches collaborators as child processes.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run blocks until the process exits. Exit codes are reported through the result; the error is reserved for
// processes that could not be started and for cancellation of executionContext.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, command.ExecutableName(), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = mergeEnvironment(command.Details.EnvironmentVariables)
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	var standardOutput, standardError bytes.Buffer
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	runError := process.Run()
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	result := ExecutionResult{StandardOutput: standardOutput.String(), StandardError: standardError.String()}
	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}
	result.ExitCode = exitError.ExitCode()
	return result, nil
}

// mergeEnvironment appends overrides to the inherited environment in key order. A nil result inherits unchanged.
func mergeEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	environment := os.Environ()
	for _, variableName := range slices.Sorted(maps.Keys(overrides)) {
		environment = append(environment, variableName+environmentAssignmentSeparatorConstant+overrides[variableName])
	}
	return environment
}
