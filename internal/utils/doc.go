// Package utils exposes reusable helpers consumed by the CLI commands.
//
// It houses the viper-backed ConfigurationLoader, the zap LoggerFactory,
// the command context accessor, and the flushing writer used for vlt output.
package utils
