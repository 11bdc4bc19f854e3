package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	consoleMessageKeyConstant            = "message"
	standardErrorOutputPathConstant      = "stderr"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerOutputs groups the loggers built for a single CLI run.
type LoggerOutputs struct {
	// DiagnosticLogger carries workflow logs in the requested level and format.
	DiagnosticLogger *zap.Logger
	// ConsoleLogger prints bare human-readable lines for external command events. It discards output unless the console format is selected.
	ConsoleLogger *zap.Logger
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, encoding, resolveError := factory.resolve(requestedLogLevel, requestedLogFormat)
	if resolveError != nil {
		return nil, resolveError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding

	logger, buildError := configuration.Build()
	if buildError != nil {
		return nil, buildError
	}

	return logger, nil
}

// CreateLoggerOutputs builds the diagnostic logger plus the console logger used for command lifecycle lines.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogger, diagnosticError := factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	if diagnosticError != nil {
		return LoggerOutputs{}, diagnosticError
	}

	if requestedLogFormat != LogFormatConsole {
		return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: zap.NewNop()}, nil
	}

	consoleConfiguration := zap.NewDevelopmentConfig()
	consoleConfiguration.Level = zap.NewAtomicLevelAt(logLevelMapping[requestedLogLevel])
	consoleConfiguration.Encoding = consoleZapEncodingStringConstant
	consoleConfiguration.DisableCaller = true
	consoleConfiguration.DisableStacktrace = true
	consoleConfiguration.OutputPaths = []string{standardErrorOutputPathConstant}
	consoleConfiguration.EncoderConfig = zapcore.EncoderConfig{MessageKey: consoleMessageKeyConstant}

	consoleLogger, consoleError := consoleConfiguration.Build()
	if consoleError != nil {
		return LoggerOutputs{}, consoleError
	}

	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: consoleLogger}, nil
}

func (factory *LoggerFactory) resolve(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (zapcore.Level, string, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return zapcore.InfoLevel, "", fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoding, formatExists := logFormatEncodingMapping[requestedLogFormat]
	if !formatExists {
		return zapcore.InfoLevel, "", fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	return zapLogLevel, encoding, nil
}
