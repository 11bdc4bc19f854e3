package execshell

import (
	"fmt"
	"strings"
)

const (
	commandFailedErrorTemplateConstant           = "%s exited with code %d"
	commandFailedWithOutputErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant        = "%s could not be executed: %v"
	unparseableOutputErrorTemplateConstant       = "unparseable %s output: %q"
)

// CommandFailedError reports a collaborator that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure, including the trimmed process output when present.
func (failure CommandFailedError) Error() string {
	output := failure.Output()
	if len(output) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.ExecutableName(), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputErrorTemplateConstant, failure.Command.ExecutableName(), failure.Result.ExitCode, output)
}

// Output returns the combined, trimmed output of the failed process.
func (failure CommandFailedError) Output() string {
	return strings.TrimSpace(failure.Result.CombinedOutput())
}

// CommandExecutionError reports a collaborator that could not be started or was interrupted.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.ExecutableName(), failure.Cause)
}

// Unwrap exposes the underlying cause, such as context cancellation or a missing executable.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// UnparseableOutputError reports collaborator output that does not follow the expected grammar.
type UnparseableOutputError struct {
	Command CommandName
	Output  string
}

// Error describes the unexpected output.
func (failure UnparseableOutputError) Error() string {
	return fmt.Sprintf(unparseableOutputErrorTemplateConstant, failure.Command, strings.TrimSpace(failure.Output))
}
