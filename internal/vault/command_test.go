package vault_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/filevault/internal/execshell"
	"github.com/temirov/filevault/internal/utils"
	"github.com/temirov/filevault/internal/vault"
)

type commandHarness struct {
	builder  vault.CommandBuilder
	executor *recordingExecutor
	logs     *observer.ObservedLogs
	dryRun   bool
}

func newCommandHarness() *commandHarness {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	logger := zap.New(observerCore)
	harness := &commandHarness{executor: &recordingExecutor{}, logs: observedLogs}
	harness.builder = vault.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return logger },
		ConfigurationProvider: func() vault.ClientConfiguration {
			return vault.ClientConfiguration{Executable: "vlt", Defaults: testInstanceDefaults()}
		},
		ExecutorProvider: func() vault.CommandExecutor { return harness.executor },
	}
	return harness
}

func (harness *commandHarness) executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SilenceUsage = true
	command.SilenceErrors = true
	executionContext := utils.NewCommandContextAccessor().WithDryRun(context.Background(), harness.dryRun)
	executionError := command.ExecuteContext(executionContext)
	return outputBuffer.String(), executionError
}

func TestCommandBuilderBuildAll(testInstance *testing.T) {
	harness := newCommandHarness()
	commands, buildError := harness.builder.BuildAll()
	require.NoError(testInstance, buildError)
	require.Len(testInstance, commands, len(vault.Subcommands()))

	for commandIndex, subcommand := range vault.Subcommands() {
		require.Equal(testInstance, string(subcommand), commands[commandIndex].Name())
		require.NotEmpty(testInstance, commands[commandIndex].Short)
		for _, flagName := range []string{"credentials", "username", "password", "uri", "exclude", "recursive", "non-recursive", "verbose", "quiet", "file", "local-path"} {
			require.NotNil(testInstance, commands[commandIndex].Flags().Lookup(flagName), flagName)
		}
	}
}

func TestCommandBuilderRejectsUnknownSubcommand(testInstance *testing.T) {
	harness := newCommandHarness()
	command, buildError := harness.builder.Build(vault.Subcommand("mount"))
	require.Nil(testInstance, command)
	require.ErrorAs(testInstance, buildError, new(vault.UnknownSubcommandError))
}

func TestCommandTranslatesChangedFlagsIntoOverrides(testInstance *testing.T) {
	testCases := []struct {
		name              string
		subcommand        vault.Subcommand
		arguments         []string
		expectedArguments []string
	}{
		{
			name:              "defaults_only",
			subcommand:        vault.SubcommandStatus,
			arguments:         nil,
			expectedArguments: []string{"status", "--credentials", "admin:admin", "--verbose", "--version"},
		},
		{
			name:       "toggle_switched_off_and_sequences",
			subcommand: vault.SubcommandUpdate,
			arguments: []string{
				"--force", "--verbose=no", "--quiet", "--batch-size", "5",
				"--file", "a.txt", "--file", "b.txt",
			},
			expectedArguments: []string{"update", "--credentials", "admin:admin", "--batchSize", "5", "--force", "--quiet", "--version", "a.txt", "b.txt"},
		},
		{
			name:       "rcp_with_source_and_destination",
			subcommand: vault.SubcommandRcp,
			arguments: []string{
				"--credentials", "author:secret", "--exclude", "css", "--recursive", "--newer", "--update",
				"--src", "http://localhost:4502/crx/-/jcr:root/content",
				"--dst", "http://localhost:4503/crx/-/jcr:root/content_copy",
			},
			expectedArguments: []string{
				"rcp", "--credentials", "author:secret", "--exclude", "css", "--recursive", "--newer", "--update", "--verbose", "--version",
				"http://localhost:4502/crx/-/jcr:root/content", "http://localhost:4503/crx/-/jcr:root/content_copy",
			},
		},
		{
			name:       "vlt_level_flags",
			subcommand: vault.SubcommandCheckout,
			arguments: []string{
				"--vlt-config", "jcrfs.xml", "--vlt-log-level", "debug", "--xjcrlog", "level=info",
				"--filter", "filter.xml", "--uri", "http://localhost:4502/crx", "--jcr-path", "/", "--local-path", ".",
			},
			expectedArguments: []string{
				"checkout", "-Xjcrlog", "level=info", "--config", "jcrfs.xml", "--log-level", "debug",
				"--credentials", "admin:admin", "--filter", "filter.xml", "--verbose", "--version",
				"http://localhost:4502/crx", "/", ".",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newCommandHarness()
			command, buildError := harness.builder.Build(testCase.subcommand)
			require.NoError(testInstance, buildError)

			output, executionError := harness.executeCommand(testInstance, command, testCase.arguments...)
			require.NoError(testInstance, executionError)

			recorded := harness.executor.recorded()
			require.Len(testInstance, recorded, 1)
			require.Equal(testInstance, testCase.expectedArguments, recorded[0].Details.Arguments)
			require.Equal(testInstance, execshell.CommandVault, recorded[0].Name)
			require.Equal(testInstance, strings.Join(testCase.expectedArguments, " "), output)

			completionEntries := harness.logs.FilterMessage("vlt command completed").All()
			require.Len(testInstance, completionEntries, 1)
			require.Equal(testInstance, string(testCase.subcommand), completionEntries[0].ContextMap()["subcommand"])
			require.EqualValues(testInstance, len(output), completionEntries[0].ContextMap()["output_bytes"])
		})
	}
}

func TestCommandDryRunPrintsMaskedCommandLine(testInstance *testing.T) {
	harness := newCommandHarness()
	harness.dryRun = true
	command, buildError := harness.builder.Build(vault.SubcommandCommit)
	require.NoError(testInstance, buildError)

	output, executionError := harness.executeCommand(testInstance, command, "--password", "hunter2", "--file", "/test.js")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "vlt commit --credentials **** --verbose --version /test.js\n", output)
	require.Empty(testInstance, harness.executor.recorded())
}

func TestCommandDryRunFlattensSequences(testInstance *testing.T) {
	harness := newCommandHarness()
	harness.dryRun = true
	command, buildError := harness.builder.Build(vault.SubcommandAdd)
	require.NoError(testInstance, buildError)

	output, executionError := harness.executeCommand(testInstance, command, "--exclude", "*.tmp", "--exclude", "*.bak", "--file", "a.txt", "--file", "b.txt")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "vlt add --credentials **** --exclude *.tmp *.bak --verbose --version a.txt b.txt\n", output)
	require.Empty(testInstance, harness.executor.recorded())
}

func TestCommandTypeFlagListsExportTypes(testInstance *testing.T) {
	harness := newCommandHarness()
	command, buildError := harness.builder.Build(vault.SubcommandExport)
	require.NoError(testInstance, buildError)

	typeFlag := command.Flags().Lookup("type")
	require.NotNil(testInstance, typeFlag)
	require.Equal(testInstance, "`<platform|jar>` Export type", typeFlag.Usage)
}

func TestCommandRejectsPositionalArguments(testInstance *testing.T) {
	harness := newCommandHarness()
	command, buildError := harness.builder.Build(vault.SubcommandInfo)
	require.NoError(testInstance, buildError)

	_, executionError := harness.executeCommand(testInstance, command, "/test.js")
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "info does not accept positional arguments")
	require.Empty(testInstance, harness.executor.recorded())
}
