package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pyport/internal/execshell"
	"github.com/temirov/pyport/internal/interpreter"
)

func TestExtractVersion(testInstance *testing.T) {
	testCases := []struct {
		name            string
		output          string
		expectedVersion string
		expectedMajor   uint64
		expectedMinor   uint64
		expectError     bool
	}{
		{
			name:            "python3_stdout",
			output:          "Python 3.8.10\n",
			expectedVersion: "3.8.10",
			expectedMajor:   3,
			expectedMinor:   8,
		},
		{
			name:            "python2_stderr_banner",
			output:          "Python 2.7.18\n",
			expectedVersion: "2.7.18",
			expectedMajor:   2,
			expectedMinor:   7,
		},
		{
			name:            "release_candidate_suffix",
			output:          "Python 3.12.0rc1",
			expectedVersion: "3.12.0",
			expectedMajor:   3,
			expectedMinor:   12,
		},
		{
			name:        "missing_patch_component",
			output:      "Python 3.9",
			expectError: true,
		},
		{
			name:        "unrelated_output",
			output:      "pyenv: python: command not found",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			version, extractError := interpreter.ExtractVersion(testCase.output)
			if testCase.expectError {
				require.Error(testInstance, extractError)
				var unparseableError execshell.UnparseableOutputError
				require.ErrorAs(testInstance, extractError, &unparseableError)
				require.Equal(testInstance, execshell.CommandPython, unparseableError.Command)
				require.True(testInstance, version.IsZero())
				return
			}
			require.NoError(testInstance, extractError)
			require.Equal(testInstance, testCase.expectedVersion, version.String())
			require.Equal(testInstance, testCase.expectedMajor, version.Major())
			require.Equal(testInstance, testCase.expectedMinor, version.Minor())
		})
	}
}

func TestVersionMatchesTarget(testInstance *testing.T) {
	testCases := []struct {
		name          string
		version       string
		target        string
		expectedMatch bool
	}{
		{name: "exact_patch_release", version: "3.9.0", target: "3.9", expectedMatch: true},
		{name: "later_patch_release", version: "3.9.18", target: "3.9", expectedMatch: true},
		{name: "full_target_version", version: "3.9.18", target: "3.9.18", expectedMatch: true},
		{name: "older_minor_release", version: "3.8.10", target: "3.9", expectedMatch: false},
		{name: "two_digit_minor_release", version: "3.10.4", target: "3.1", expectedMatch: false},
		{name: "patch_prefix_without_boundary", version: "3.9.10", target: "3.9.1", expectedMatch: false},
		{name: "target_with_whitespace", version: "3.9.2", target: " 3.9 ", expectedMatch: true},
		{name: "empty_target", version: "3.9.2", target: "", expectedMatch: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			version, parseError := interpreter.ParseVersion(testCase.version)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedMatch, version.MatchesTarget(testCase.target))
		})
	}
}

func TestZeroVersionNeverMatches(testInstance *testing.T) {
	require.False(testInstance, interpreter.Version{}.MatchesTarget("3.9"))
}

func TestParseVersionRejectsMalformedInput(testInstance *testing.T) {
	_, parseError := interpreter.ParseVersion("three.nine")
	require.Error(testInstance, parseError)
}
