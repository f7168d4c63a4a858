package ui_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/filevault/internal/execshell"
	"github.com/temirov/filevault/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant    = "/srv/content"
	testCredentialsConstant                = "admin:hunter2"
	testExecutionFailureReasonConstant     = "fork/exec vlt: permission denied"
	testStandardErrorMessageConstant       = "[ERROR] login admin:hunter2 rejected"
	testStartMessageExpectationConstant    = "Updating working copy in " + testCommandWorkingDirectoryConstant
	testSuccessMessageExpectationConstant  = "Updated working copy in " + testCommandWorkingDirectoryConstant
	testFailureMessageExpectationConstant  = "Failed to update working copy in " + testCommandWorkingDirectoryConstant + " (exit code 1: [ERROR] login **** rejected)"
	testExecutionFailureMessageExpectation = "Unable to update working copy in " + testCommandWorkingDirectoryConstant + ": " + testExecutionFailureReasonConstant
	testGenericCommandNameConstant         = "java"
	testGenericStartMessageExpectation     = "Running java -jar vault-cli.jar --credentials ****"
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandVault,
		Details: execshell.CommandDetails{
			Arguments:        []string{"update", "--credentials", testCredentialsConstant, "--force"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
			SensitiveValues:  []string{testCredentialsConstant},
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
		{
			name: "generic_command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(execshell.ShellCommand{
					Name: execshell.CommandName(testGenericCommandNameConstant),
					Details: execshell.CommandDetails{
						Arguments:       []string{"-jar", "vault-cli.jar", "--credentials", testCredentialsConstant},
						SensitiveValues: []string{testCredentialsConstant},
					},
				})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testGenericStartMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			consoleLogger := zap.New(observerCore)
			eventLogger := ui.NewConsoleCommandEventLogger(consoleLogger)

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
			require.NotContains(testInstance, entries[0].Message, testCredentialsConstant)
		})
	}
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandVault})
		eventLogger.CommandCompleted(execshell.ShellCommand{Name: execshell.CommandVault}, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(execshell.ShellCommand{Name: execshell.CommandVault}, errors.New("boom"))
	})
}

type exitingCommandRunner struct {
	result execshell.ExecutionResult
}

func (runner exitingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	return runner.result, nil
}

func TestConsoleExecutorReportsNonZeroExitOnce(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)
	consoleLogger := zap.New(observerCore)
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(
		consoleLogger,
		exitingCommandRunner{result: execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant}},
		ui.NewConsoleCommandEventLogger(consoleLogger),
	)
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.Execute(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandVault,
		Details: execshell.CommandDetails{
			Arguments:        []string{"update", "--credentials", testCredentialsConstant},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
			SensitiveValues:  []string{testCredentialsConstant},
		},
	})
	require.Error(testInstance, executionError)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, testStartMessageExpectationConstant, entries[0].Message)
	require.Equal(testInstance, zapcore.WarnLevel, entries[1].Level)
	require.Equal(testInstance, testFailureMessageExpectationConstant, entries[1].Message)
	require.Len(testInstance, observedLogs.FilterLevelExact(zapcore.WarnLevel).All(), 1)
}
