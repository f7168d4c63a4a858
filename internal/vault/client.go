package vault

import (
	"context"
	"strings"

	"github.com/temirov/filevault/internal/execshell"
)

// CommandExecutor is the minimal interface required from execshell.ShellExecutor.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ClientConfiguration holds the instance-level settings applied to every call.
type ClientConfiguration struct {
	Executable       string      `mapstructure:"executable" yaml:"executable"`
	WorkingDirectory string      `mapstructure:"working_directory" yaml:"working_directory,omitempty"`
	Environment      Environment `mapstructure:"environment" yaml:"environment,omitempty"`
	Defaults         Options     `mapstructure:"defaults" yaml:"defaults"`
}

// Environment holds variables added to the vlt process environment, such as
// JAVA_OPTS or VLT_OPTS. The rest of the caller's environment is inherited.
type Environment map[string]string

// Clone returns a copy without blank names.
func (environment Environment) Clone() Environment {
	if len(environment) == 0 {
		return nil
	}
	cloned := make(Environment, len(environment))
	for variableName, variableValue := range environment {
		trimmedName := strings.TrimSpace(variableName)
		if len(trimmedName) == 0 {
			continue
		}
		cloned[trimmedName] = variableValue
	}
	return cloned
}

// Client runs vlt subcommands with configured defaults merged under each call's options.
// The configuration is copied at construction, so a Client is safe for concurrent use.
type Client struct {
	configuration ClientConfiguration
	executor      CommandExecutor
}

// NewClient constructs a Client around the executor.
func NewClient(configuration ClientConfiguration, executor CommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	clientConfiguration := configuration
	clientConfiguration.Executable = strings.TrimSpace(configuration.Executable)
	if len(clientConfiguration.Executable) == 0 {
		clientConfiguration.Executable = string(execshell.CommandVault)
	}
	clientConfiguration.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	clientConfiguration.Environment = configuration.Environment.Clone()
	clientConfiguration.Defaults = configuration.Defaults.Clone()

	return &Client{configuration: clientConfiguration, executor: executor}, nil
}

// Configuration returns a copy of the client configuration.
func (client *Client) Configuration() ClientConfiguration {
	configuration := client.configuration
	configuration.Environment = client.configuration.Environment.Clone()
	configuration.Defaults = client.configuration.Defaults.Clone()
	return configuration
}

// CommandLine renders the invocation a call would run without running it, with
// sequence options flattened into single tokens.
func (client *Client) CommandLine(subcommand Subcommand, overrides Options) (CommandLine, error) {
	mergedOptions := MergeOptions(client.configuration.Defaults, overrides)
	return BuildCommandLine(client.configuration.Executable, subcommand, mergedOptions)
}

// Run executes one vlt subcommand and returns its standard output unparsed.
// Configuration problems are reported before any process starts; process
// failures are returned as ProcessError.
func (client *Client) Run(executionContext context.Context, subcommand Subcommand, overrides Options) (string, error) {
	mergedOptions := MergeOptions(client.configuration.Defaults, overrides)
	processArguments, buildError := BuildProcessArguments(client.configuration.Executable, subcommand, mergedOptions)
	if buildError != nil {
		return "", buildError
	}

	credentials, _ := ResolveCredentials(mergedOptions)
	shellCommand := execshell.ShellCommand{
		Name: execshell.CommandName(processArguments.Executable()),
		Details: execshell.CommandDetails{
			Arguments:            processArguments.Arguments(),
			WorkingDirectory:     client.configuration.WorkingDirectory,
			EnvironmentVariables: client.configuration.Environment,
			SensitiveValues:      sensitiveValues(mergedOptions, credentials),
		},
	}

	executionResult, executionError := client.executor.Execute(executionContext, shellCommand)
	if executionError != nil {
		return "", ProcessError{Subcommand: subcommand, Cause: executionError}
	}

	return executionResult.StandardOutput, nil
}

// Export runs vlt export.
func (client *Client) Export(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandExport, options)
}

// Import runs vlt import.
func (client *Client) Import(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandImport, options)
}

// Checkout runs vlt checkout.
func (client *Client) Checkout(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandCheckout, options)
}

// Analyze runs vlt analyze.
func (client *Client) Analyze(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandAnalyze, options)
}

// Status runs vlt status.
func (client *Client) Status(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandStatus, options)
}

// Update runs vlt update.
func (client *Client) Update(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandUpdate, options)
}

// Info runs vlt info.
func (client *Client) Info(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandInfo, options)
}

// Commit runs vlt commit.
func (client *Client) Commit(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandCommit, options)
}

// Revert runs vlt revert.
func (client *Client) Revert(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandRevert, options)
}

// Resolved runs vlt resolved.
func (client *Client) Resolved(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandResolved, options)
}

// PropGet runs vlt propget.
func (client *Client) PropGet(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandPropGet, options)
}

// PropList runs vlt proplist.
func (client *Client) PropList(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandPropList, options)
}

// PropSet runs vlt propset.
func (client *Client) PropSet(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandPropSet, options)
}

// Add runs vlt add.
func (client *Client) Add(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandAdd, options)
}

// Delete runs vlt delete.
func (client *Client) Delete(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandDelete, options)
}

// Diff runs vlt diff.
func (client *Client) Diff(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandDiff, options)
}

// Console runs vlt console.
func (client *Client) Console(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandConsole, options)
}

// Rcp runs vlt rcp.
func (client *Client) Rcp(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandRcp, options)
}

// Sync runs vlt sync.
func (client *Client) Sync(executionContext context.Context, options Options) (string, error) {
	return client.Run(executionContext, SubcommandSync, options)
}
