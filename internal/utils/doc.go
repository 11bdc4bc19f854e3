// Package utils exposes reusable helpers consumed by the pyport commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, config
// files, dotenv files, and environment variables through Viper, and the
// LoggerFactory, which builds the zap loggers used for diagnostics and for
// human-readable command output.
package utils
