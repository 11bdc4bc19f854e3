package execshell_test

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pyport/internal/execshell"
)

func shellCommand(script string, details execshell.CommandDetails) execshell.ShellCommand {
	details.Arguments = []string{"-c", script}
	return execshell.ShellCommand{Name: execshell.CommandPython, Executable: "sh", Details: details}
}

func TestOSCommandRunnerCapturesProcessResults(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("requires a POSIX shell")
	}

	workingDirectory := testInstance.TempDir()
	resolvedWorkingDirectory, resolveError := filepath.EvalSymlinks(workingDirectory)
	require.NoError(testInstance, resolveError)

	testCases := []struct {
		name             string
		command          execshell.ShellCommand
		expectedOutput   string
		expectedError    string
		expectedExitCode int
	}{
		{
			name:             "non_zero_exit",
			command:          shellCommand("echo Python 2.7.18 1>&2; exit 3", execshell.CommandDetails{}),
			expectedError:    "Python 2.7.18\n",
			expectedExitCode: 3,
		},
		{
			name:           "environment_override",
			command:        shellCommand(`printf %s "$PYPORT_RUNNER_TEST"`, execshell.CommandDetails{EnvironmentVariables: map[string]string{"PYPORT_RUNNER_TEST": "marker"}}),
			expectedOutput: "marker",
		},
		{
			name:           "standard_input",
			command:        shellCommand("cat", execshell.CommandDetails{StandardInput: []byte("flask==1.0.0\n")}),
			expectedOutput: "flask==1.0.0\n",
		},
		{
			name:           "working_directory",
			command:        shellCommand("pwd -P", execshell.CommandDetails{WorkingDirectory: workingDirectory}),
			expectedOutput: resolvedWorkingDirectory + "\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			result, runError := execshell.NewOSCommandRunner().Run(context.Background(), testCase.command)
			require.NoError(subTest, runError)
			require.Equal(subTest, testCase.expectedExitCode, result.ExitCode)
			require.Equal(subTest, testCase.expectedOutput, result.StandardOutput)
			require.Equal(subTest, testCase.expectedError, result.StandardError)
		})
	}
}

func TestOSCommandRunnerReportsStartFailures(testInstance *testing.T) {
	command := execshell.ShellCommand{Name: execshell.CommandRewriteTool, Executable: "pyport-missing-2to3"}

	_, runError := execshell.NewOSCommandRunner().Run(context.Background(), command)
	require.Error(testInstance, runError)
	require.True(testInstance, strings.Contains(runError.Error(), "pyport-missing-2to3"))
}

func TestOSCommandRunnerReportsCancellation(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("requires a POSIX shell")
	}

	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, runError := execshell.NewOSCommandRunner().Run(executionContext, shellCommand("exit 0", execshell.CommandDetails{}))
	require.ErrorIs(testInstance, runError, context.Canceled)
}
