package execshell

import "context"

const (
	commandVaultStringConstant = "vlt"
)

// CommandName identifies the executable launched for a command.
type CommandName string

// CommandVault is the default FileVault executable name resolved through PATH.
const CommandVault CommandName = CommandName(commandVaultStringConstant)

// CommandDetails describes the arguments and process environment of a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	// SensitiveValues are masked wherever the command is rendered for humans or logs.
	SensitiveValues []string
}

// ShellCommand combines an executable with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}
