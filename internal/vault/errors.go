package vault

import (
	"errors"
	"fmt"

	"github.com/temirov/filevault/internal/execshell"
)

const (
	credentialsMissingMessageConstant     = "credentials missing: provide credentials or both username and password"
	executorNotConfiguredMessageConstant  = "vault command executor not configured"
	configurationErrorTemplateConstant    = "vlt %s configuration invalid: %s"
	processErrorTemplateConstant          = "vlt %s failed: %s"
	processErrorWithoutCauseTemplate      = "vlt %s failed"
	configurationErrorWithoutCauseMessage = "vlt %s configuration invalid"
)

var (
	// ErrCredentialsMissing indicates neither credentials nor a complete username/password pair was supplied.
	ErrCredentialsMissing = errors.New(credentialsMissingMessageConstant)
	// ErrExecutorNotConfigured indicates the client was constructed without a command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// ConfigurationError reports options that cannot be rendered into a command line.
// It is returned before any process is started.
type ConfigurationError struct {
	Subcommand Subcommand
	Cause      error
}

// Error describes the configuration problem.
func (configurationError ConfigurationError) Error() string {
	if configurationError.Cause == nil {
		return fmt.Sprintf(configurationErrorWithoutCauseMessage, configurationError.Subcommand)
	}
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Subcommand, configurationError.Cause)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}

// ProcessError reports a vlt process that exited non-zero or could not be launched.
type ProcessError struct {
	Subcommand Subcommand
	Cause      error
}

// Error describes the process failure.
func (processError ProcessError) Error() string {
	if processError.Cause == nil {
		return fmt.Sprintf(processErrorWithoutCauseTemplate, processError.Subcommand)
	}
	return fmt.Sprintf(processErrorTemplateConstant, processError.Subcommand, processError.Cause)
}

// Unwrap exposes the execshell error.
func (processError ProcessError) Unwrap() error {
	return processError.Cause
}

// StandardError returns the captured error stream of a process that exited non-zero.
func (processError ProcessError) StandardError() string {
	var failedError execshell.CommandFailedError
	if errors.As(processError.Cause, &failedError) {
		return failedError.Result.StandardError
	}
	return ""
}

// ExitCode returns the exit status of a process that exited non-zero, or -1 when it never ran.
func (processError ProcessError) ExitCode() int {
	var failedError execshell.CommandFailedError
	if errors.As(processError.Cause, &failedError) {
		return failedError.Result.ExitCode
	}
	return -1
}
