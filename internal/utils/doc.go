// Package utils exposes reusable helpers consumed by the CLI commands.
//
// It houses ConfigurationLoader, which layers embedded defaults, an optional
// configuration file, and COFGATE_ environment variables through Viper, and
// LoggerFactory, which builds zap loggers for diagnostic output.
package utils
