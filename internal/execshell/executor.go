package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant        = "%s exited with code %d"
	commandFailedWithOutputTemplateConstant   = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %s"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "stderr"
	logFieldErrorConstant                     = "error"
)

var (
	// ErrLoggerNotConfigured indicates a ShellExecutor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates a ShellExecutor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that ran and exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command with its masked standard error output.
func (failedError CommandFailedError) Error() string {
	commandLabel := CommandMessageFormatter{}.BuildCommandLabel(failedError.Command)
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, commandLabel, failedError.Result.ExitCode)
	}
	maskedStandardError := RedactText(trimmedStandardError, failedError.Command.Details.SensitiveValues)
	return fmt.Sprintf(commandFailedWithOutputTemplateConstant, commandLabel, failedError.Result.ExitCode, maskedStandardError)
}

// CommandExecutionError reports a command that could not be launched or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the launch failure.
func (executionError CommandExecutionError) Error() string {
	commandLabel := CommandMessageFormatter{}.BuildCommandLabel(executionError.Command)
	causeMessage := unknownFailureMessageConstant
	if executionError.Cause != nil {
		causeMessage = RedactText(executionError.Cause.Error(), executionError.Command.Details.SensitiveValues)
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, commandLabel, causeMessage)
}

// Unwrap exposes the underlying launch error.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs commands through a CommandRunner, logging each lifecycle step.
// When an observer reports lifecycle events, the executor's own entries stay at
// debug level so failures are not reported twice. It holds no per-call state and
// is safe for concurrent use.
type ShellExecutor struct {
	logger           *zap.Logger
	runner           CommandRunner
	eventObserver    CommandEventObserver
	observerAttached bool
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor that reports lifecycle events only through the logger.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs a ShellExecutor that also notifies the observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	observerAttached := observer != nil
	if !observerAttached {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{
		logger:           logger,
		runner:           runner,
		eventObserver:    observer,
		observerAttached: observerAttached,
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// Execute runs the command once and waits for it to finish. A non-zero exit yields
// CommandFailedError and a launch failure yields CommandExecutionError; in both cases
// the returned result is empty.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := executor.commandFields(command)

	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command), commandFields...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		executor.logger.Log(
			executor.failureLevel(zapcore.ErrorLevel),
			executor.messageFormatter.BuildExecutionFailureMessage(command, runError),
			append(commandFields, zap.String(logFieldErrorConstant, RedactText(runError.Error(), command.Details.SensitiveValues)))...,
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Log(
			executor.failureLevel(zapcore.WarnLevel),
			executor.messageFormatter.BuildFailureMessage(command, executionResult),
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, RedactText(executionResult.StandardError, command.Details.SensitiveValues)),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		executor.messageFormatter.BuildSuccessMessage(command),
		append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...,
	)

	return executionResult, nil
}

func (executor *ShellExecutor) failureLevel(standaloneLevel zapcore.Level) zapcore.Level {
	if executor.observerAttached {
		return zapcore.DebugLevel
	}
	return standaloneLevel
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	fields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, RedactArguments(command.Details.Arguments, command.Details.SensitiveValues)),
	}
	if len(command.Details.WorkingDirectory) > 0 {
		fields = append(fields, zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory))
	}
	return fields
}
