package execshell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	pythonCommandNameConstant            = "python"
	dependencyTreeCommandNameConstant    = "pipdeptree"
	rewriteToolCommandNameConstant       = "2to3"
	loggerNotConfiguredMessageConstant   = "logger not configured"
	runnerNotConfiguredMessageConstant   = "command runner not configured"
	commandStartedLogMessageConstant     = "external command started"
	commandCompletedLogMessageConstant   = "external command completed"
	commandFailedLogMessageConstant      = "external command failed"
	commandUnavailableLogMessageConstant = "external command could not be executed"
	logFieldCommandConstant              = "command"
	logFieldExecutableConstant           = "executable"
	logFieldArgumentsConstant            = "arguments"
	logFieldWorkingDirectoryConstant     = "working_directory"
	logFieldExitCodeConstant             = "exit_code"
	logFieldStandardErrorConstant        = "stderr"
)

// CommandName identifies an external collaborator.
type CommandName string

// Supported external collaborators.
const (
	CommandPython         CommandName = CommandName(pythonCommandNameConstant)
	CommandDependencyTree CommandName = CommandName(dependencyTreeCommandNameConstant)
	CommandRewriteTool    CommandName = CommandName(rewriteToolCommandNameConstant)
)

var (
	// ErrLoggerNotConfigured indicates that a nil logger was supplied.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that a nil command runner was supplied.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// CommandDetails describes a single invocation of an external collaborator.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples a collaborator with the executable that implements it and the invocation details.
type ShellCommand struct {
	Name       CommandName
	Executable string
	Details    CommandDetails
}

// ExecutableName returns the executable to launch, falling back to the collaborator name.
func (command ShellCommand) ExecutableName() string {
	trimmedExecutable := strings.TrimSpace(command.Executable)
	if len(trimmedExecutable) == 0 {
		return string(command.Name)
	}
	return trimmedExecutable
}

// ExecutionResult captures the observable results of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput joins standard output and standard error in that order.
func (result ExecutionResult) CombinedOutput() string {
	return result.StandardOutput + result.StandardError
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ExecutablePaths overrides the executable used for each collaborator. Empty values keep the collaborator name.
type ExecutablePaths struct {
	Python         string
	DependencyTree string
	RewriteTool    string
}

func (paths ExecutablePaths) resolve(name CommandName) string {
	switch name {
	case CommandPython:
		return strings.TrimSpace(paths.Python)
	case CommandDependencyTree:
		return strings.TrimSpace(paths.DependencyTree)
	case CommandRewriteTool:
		return strings.TrimSpace(paths.RewriteTool)
	default:
		return ""
	}
}

// ShellExecutor runs collaborators through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger          *zap.Logger
	commandRunner   CommandRunner
	eventObserver   CommandEventObserver
	executablePaths ExecutablePaths
}

// NewShellExecutor constructs a ShellExecutor. A nil observer discards lifecycle events.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObserver CommandEventObserver, executablePaths ExecutablePaths) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if eventObserver == nil {
		eventObserver = discardingObserver{}
	}
	return &ShellExecutor{
		logger:          logger,
		commandRunner:   commandRunner,
		eventObserver:   eventObserver,
		executablePaths: executablePaths,
	}, nil
}

// Execute runs the command. Non-zero exit codes yield CommandFailedError and runner failures yield CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(command.Executable)) == 0 {
		command.Executable = executor.executablePaths.resolve(command.Name)
	}

	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.String(logFieldExecutableConstant, command.ExecutableName()),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(commandUnavailableLogMessageConstant, append(commandFields, zap.Error(runError))...)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Debug(
			commandFailedLogMessageConstant,
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
	return executionResult, nil
}

// ExecutePython runs the configured Python interpreter.
func (executor *ShellExecutor) ExecutePython(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPython, Details: details})
}

// ExecuteDependencyTree runs the configured dependency tree lister.
func (executor *ShellExecutor) ExecuteDependencyTree(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandDependencyTree, Details: details})
}

// ExecuteRewriteTool runs the configured source rewrite tool.
func (executor *ShellExecutor) ExecuteRewriteTool(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandRewriteTool, Details: details})
}
