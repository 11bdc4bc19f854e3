package execshell

// CommandEventObserver follows each collaborator invocation made through a ShellExecutor.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted fires for every process that exited, including non-zero exit codes.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or was cancelled.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type discardingObserver struct{}

func (discardingObserver) CommandStarted(ShellCommand) {}

func (discardingObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingObserver) CommandExecutionFailed(ShellCommand, error) {}
