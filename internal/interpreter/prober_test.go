package interpreter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pyport/internal/execshell"
	"github.com/temirov/pyport/internal/interpreter"
)

const (
	testSourceDirectoryConstant = "/workspace/legacy"
)

type stubPythonExecutor struct {
	result          execshell.ExecutionResult
	err             error
	receivedDetails []execshell.CommandDetails
}

func (executor *stubPythonExecutor) ExecutePython(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.receivedDetails = append(executor.receivedDetails, details)
	return executor.result, executor.err
}

func TestNewProberRequiresExecutor(testInstance *testing.T) {
	prober, creationError := interpreter.NewProber(nil)
	require.ErrorIs(testInstance, creationError, interpreter.ErrExecutorNotConfigured)
	require.Nil(testInstance, prober)
}

func TestProberProbe(testInstance *testing.T) {
	interpreterFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandPython},
		Result:  execshell.ExecutionResult{ExitCode: 127, StandardError: "python: not found"},
	}

	testCases := []struct {
		name            string
		result          execshell.ExecutionResult
		executionError  error
		expectedVersion string
		expectedError   error
		expectParseFail bool
	}{
		{
			name:            "version_on_stdout",
			result:          execshell.ExecutionResult{StandardOutput: "Python 3.8.10\n"},
			expectedVersion: "3.8.10",
		},
		{
			name:            "version_on_stderr",
			result:          execshell.ExecutionResult{StandardError: "Python 2.7.18\n"},
			expectedVersion: "2.7.18",
		},
		{
			name:           "interpreter_failure",
			executionError: interpreterFailure,
			expectedError:  interpreterFailure,
		},
		{
			name:            "unparseable_output",
			result:          execshell.ExecutionResult{StandardOutput: "IronPython 2.7"},
			expectParseFail: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubPythonExecutor{result: testCase.result, err: testCase.executionError}
			prober, creationError := interpreter.NewProber(executor)
			require.NoError(testInstance, creationError)

			version, probeError := prober.Probe(context.Background(), testSourceDirectoryConstant)

			require.Len(testInstance, executor.receivedDetails, 1)
			require.Equal(testInstance, []string{"--version"}, executor.receivedDetails[0].Arguments)
			require.Equal(testInstance, testSourceDirectoryConstant, executor.receivedDetails[0].WorkingDirectory)

			switch {
			case testCase.expectedError != nil:
				require.Error(testInstance, probeError)
				var commandFailure execshell.CommandFailedError
				require.True(testInstance, errors.As(probeError, &commandFailure))
				require.Equal(testInstance, 127, commandFailure.Result.ExitCode)
			case testCase.expectParseFail:
				var unparseableError execshell.UnparseableOutputError
				require.ErrorAs(testInstance, probeError, &unparseableError)
				require.Equal(testInstance, "IronPython 2.7", unparseableError.Output)
			default:
				require.NoError(testInstance, probeError)
				require.Equal(testInstance, testCase.expectedVersion, version.String())
			}
		})
	}
}
