package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/pyport/internal/execshell"
)

// ConsoleCommandEventLogger prints one human-readable line per collaborator event.
// Starts and clean exits are informational, non-zero exits are warnings, and launch failures are errors.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a ConsoleCommandEventLogger. A nil logger discards every line.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.emit(zapcore.InfoLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildStartedMessage(command)
	})
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode != 0 {
		eventLogger.emit(zapcore.WarnLevel, func(formatter execshell.CommandMessageFormatter) string {
			return formatter.BuildFailureMessage(command, result)
		})
		return
	}
	eventLogger.emit(zapcore.InfoLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildSuccessMessage(command, result)
	})
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.emit(zapcore.ErrorLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildExecutionFailureMessage(command, failure)
	})
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, render func(execshell.CommandMessageFormatter) string) {
	if eventLogger == nil || eventLogger.logger == nil {
		return
	}
	if checkedEntry := eventLogger.logger.Check(level, render(eventLogger.formatter)); checkedEntry != nil {
		checkedEntry.Write()
	}
}
