package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testPythonWrapperCaseNameConstant            = "python_wrapper"
	testDependencyTreeWrapperCaseNameConstant    = "dependency_tree_wrapper"
	testRewriteToolWrapperCaseNameConstant       = "rewrite_tool_wrapper"
	testCommandArgumentConstant                  = "--version"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "failure"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testPythonExecutablePathConstant             = "/opt/venv/bin/python3"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	started   int
	completed int
	failed    int
}

func (eventObserver *recordingEventObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.started++
}

func (eventObserver *recordingEventObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	eventObserver.completed++
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.failed++
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner, nil, execshell.ExecutablePaths{})
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectErrorType   any
		expectedLogCount  int
		expectedCompleted int
		expectedFailed    int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "Python 3.8.10",
				ExitCode:       0,
			},
			expectedLogCount:  2,
			expectedCompleted: 1,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectErrorType:   execshell.CommandFailedError{},
			expectedLogCount:  2,
			expectedCompleted: 1,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
			expectedFailed:   1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}
			eventObserver := &recordingEventObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, eventObserver, execshell.ExecutablePaths{})
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}, WorkingDirectory: testWorkingDirectoryConstant}
			executionResult, executionError := shellExecutor.ExecutePython(context.Background(), commandDetails)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			require.Equal(testInstance, 1, eventObserver.started)
			require.Equal(testInstance, testCase.expectedCompleted, eventObserver.completed)
			require.Equal(testInstance, testCase.expectedFailed, eventObserver.failed)
		})
	}
}

func TestShellExecutorWrappersSetCommandNames(testInstance *testing.T) {
	testCases := []struct {
		name               string
		invoke             func(executor *execshell.ShellExecutor) error
		expectedCommand    execshell.CommandName
		expectedExecutable string
	}{
		{
			name: testPythonWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecutePython(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand:    execshell.CommandPython,
			expectedExecutable: testPythonExecutablePathConstant,
		},
		{
			name: testDependencyTreeWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteDependencyTree(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand:    execshell.CommandDependencyTree,
			expectedExecutable: "pipdeptree",
		},
		{
			name: testRewriteToolWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteRewriteTool(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand:    execshell.CommandRewriteTool,
			expectedExecutable: "2to3",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			recordingRunner := &recordingCommandRunner{
				executionResult: execshell.ExecutionResult{ExitCode: 1},
			}

			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil, execshell.ExecutablePaths{Python: testPythonExecutablePathConstant})
			require.NoError(testInstance, creationError)

			executionError := testCase.invoke(executor)
			require.Error(testInstance, executionError)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			recordedCommand := recordingRunner.recordedCommands[0]
			require.Equal(testInstance, testCase.expectedCommand, recordedCommand.Name)
			require.Equal(testInstance, testCase.expectedExecutable, recordedCommand.ExecutableName())
		})
	}
}

func TestCommandFailedErrorIncludesOutput(testInstance *testing.T) {
	failure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandPython},
		Result:  execshell.ExecutionResult{StandardError: "  No module named packaging\n", ExitCode: 1},
	}

	require.Equal(testInstance, "python exited with code 1: No module named packaging", failure.Error())
	require.Equal(testInstance, "No module named packaging", failure.Output())
}

func TestCommandExecutionErrorUnwrapsCause(testInstance *testing.T) {
	failure := execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandRewriteTool},
		Cause:   context.Canceled,
	}

	require.ErrorIs(testInstance, failure, context.Canceled)
}
