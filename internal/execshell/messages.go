package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	dependencyPinTemplateConstant           = "%s==%s"
)

const (
	pythonVersionFlagConstant               = "--version"
	pythonInlineScriptFlagConstant          = "-c"
	pythonMarkerArgumentCountConstant       = 4
	rewriteToolWriteFlagConstant            = "--write"
	rewriteToolShortWriteFlagConstant       = "-w"
	rewriteToolOutputDirectoryFlagConstant  = "--output-dir"
	rewriteToolFixerFlagConstant            = "-f"
	rewriteToolShortOutputDirectoryConstant = "-o"
	rewriteToolProcessesFlagConstant        = "-j"
)

const (
	interpreterVersionStartTemplateConstant            = "Querying interpreter version in %s"
	interpreterVersionSuccessTemplateConstant          = "Interpreter in %s reported %s"
	interpreterVersionFailureTemplateConstant          = "Failed to query interpreter version in %s (exit code %d%s)"
	interpreterVersionExecutionFailureTemplateConstant = "Unable to query interpreter version in %s: %s"
	markerEvaluationStartTemplateConstant              = "Evaluating environment markers for %s"
	markerEvaluationSuccessTemplateConstant            = "Evaluated environment markers for %s"
	markerEvaluationFailureTemplateConstant            = "Failed to evaluate environment markers for %s (exit code %d%s)"
	markerEvaluationExecutionFailureTemplateConstant   = "Unable to evaluate environment markers for %s: %s"
	dependencyTreeStartTemplateConstant                = "Listing installed dependencies%s"
	dependencyTreeSuccessTemplateConstant              = "Listed installed dependencies%s"
	dependencyTreeFailureTemplateConstant              = "Failed to list installed dependencies%s (exit code %d%s)"
	dependencyTreeExecutionFailureTemplateConstant     = "Unable to list installed dependencies%s: %s"
	rewritePreviewStartTemplateConstant                = "Previewing 2to3 changes for %s"
	rewritePreviewSuccessTemplateConstant              = "Previewed 2to3 changes for %s"
	rewritePreviewFailureTemplateConstant              = "Failed to preview 2to3 changes for %s (exit code %d%s)"
	rewritePreviewExecutionFailureTemplateConstant     = "Unable to preview 2to3 changes for %s: %s"
	rewriteWriteStartTemplateConstant                  = "Rewriting %s with 2to3"
	rewriteWriteSuccessTemplateConstant                = "Rewrote %s with 2to3"
	rewriteWriteFailureTemplateConstant                = "Failed to rewrite %s with 2to3 (exit code %d%s)"
	rewriteWriteExecutionFailureTemplateConstant       = "Unable to rewrite %s with 2to3: %s"
)

// rewriteToolValueFlags lists 2to3 flags that consume the following argument.
var rewriteToolValueFlags = map[string]struct{}{
	rewriteToolFixerFlagConstant:            {},
	rewriteToolShortOutputDirectoryConstant: {},
	rewriteToolOutputDirectoryFlagConstant:  {},
	rewriteToolProcessesFlagConstant:        {},
	"-x":                                    {},
	"--nofix":                               {},
	"--fix":                                 {},
	"--add-suffix":                          {},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandPython:
		return formatter.describePythonMessage(command, result, failure, stage)
	case CommandDependencyTree:
		return formatter.describeDependencyTreeMessage(command, result, failure, stage)
	case CommandRewriteTool:
		return formatter.describeRewriteToolMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePythonMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments

	if containsArgument(arguments, pythonVersionFlagConstant) {
		workingDirectory := formatter.describeWorkingDirectory(command)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(interpreterVersionStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(interpreterVersionSuccessTemplateConstant, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.CombinedOutput())))
		case messageStageFailure:
			return fmt.Sprintf(interpreterVersionFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(interpreterVersionExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if len(arguments) >= pythonMarkerArgumentCountConstant && strings.TrimSpace(arguments[0]) == pythonInlineScriptFlagConstant {
		dependencyPin := fmt.Sprintf(dependencyPinTemplateConstant, formatter.ensureValue(strings.TrimSpace(arguments[2])), formatter.ensureValue(strings.TrimSpace(arguments[3])))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(markerEvaluationStartTemplateConstant, dependencyPin)
		case messageStageSuccess:
			return fmt.Sprintf(markerEvaluationSuccessTemplateConstant, dependencyPin)
		case messageStageFailure:
			return fmt.Sprintf(markerEvaluationFailureTemplateConstant, dependencyPin, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(markerEvaluationExecutionFailureTemplateConstant, dependencyPin, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeDependencyTreeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(dependencyTreeStartTemplateConstant, workingDirectorySuffix)
	case messageStageSuccess:
		return fmt.Sprintf(dependencyTreeSuccessTemplateConstant, workingDirectorySuffix)
	case messageStageFailure:
		return fmt.Sprintf(dependencyTreeFailureTemplateConstant, workingDirectorySuffix, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(dependencyTreeExecutionFailureTemplateConstant, workingDirectorySuffix, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// describeRewriteToolMessage labels 2to3 runs by whether they write. A run without -w or --write only prints diffs,
// so it is a preview regardless of -n/--nobackups.
func (formatter CommandMessageFormatter) describeRewriteToolMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	rawTarget := formatter.extractRewriteTarget(arguments)
	target := formatter.ensureValue(rawTarget)

	writesFiles := containsArgument(arguments, rewriteToolWriteFlagConstant) || containsArgument(arguments, rewriteToolShortWriteFlagConstant)
	if writesFiles {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(rewriteWriteStartTemplateConstant, target)
		case messageStageSuccess:
			return fmt.Sprintf(rewriteWriteSuccessTemplateConstant, target)
		case messageStageFailure:
			return fmt.Sprintf(rewriteWriteFailureTemplateConstant, target, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(rewriteWriteExecutionFailureTemplateConstant, target, formatter.describeFailure(failure))
		default:
			return emptyStringConstant
		}
	}

	if len(rawTarget) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(rewritePreviewStartTemplateConstant, target)
	case messageStageSuccess:
		return fmt.Sprintf(rewritePreviewSuccessTemplateConstant, target)
	case messageStageFailure:
		return fmt.Sprintf(rewritePreviewFailureTemplateConstant, target, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(rewritePreviewExecutionFailureTemplateConstant, target, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := command.ExecutableName()
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(value) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

// extractRewriteTarget returns the last positional argument, skipping flags and their values.
func (formatter CommandMessageFormatter) extractRewriteTarget(arguments []string) string {
	target := emptyStringConstant
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if _, consumesValue := rewriteToolValueFlags[trimmed]; consumesValue {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		target = trimmed
	}
	return target
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
