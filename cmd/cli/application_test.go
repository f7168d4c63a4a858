package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/filevault/internal/execshell"
	"github.com/temirov/filevault/internal/vault"
)

const (
	testConfigurationFileNameConstant = "filevault.yaml"
	testDefaultURIConstant            = "http://localhost:4502/crx"
	testEnvironmentURIConstant        = "http://author.example.com:4502/crx"
)

type recordingVaultExecutor struct {
	mutex    sync.Mutex
	commands []execshell.ShellCommand
	result   execshell.ExecutionResult
	err      error
}

func (executor *recordingVaultExecutor) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.commands = append(executor.commands, command)
	return executor.result, executor.err
}

func isolateUserConfiguration(testInstance *testing.T) {
	testInstance.Helper()
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
}

func runApplication(testInstance *testing.T, executor vault.CommandExecutor, arguments ...string) (string, error) {
	testInstance.Helper()
	isolateUserConfiguration(testInstance)

	application := NewApplication()
	application.vaultExecutor = executor

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})

	executionError := application.ExecuteWithArguments(arguments)
	return outputBuffer.String(), executionError
}

func writeConfigurationFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o600))
	return configurationFilePath
}

func TestApplicationDryRunRendersMaskedCommandLine(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		configuration  string
		environment    map[string]string
		expectedOutput string
	}{
		{
			name:           "embedded_defaults",
			arguments:      []string{"export", "--dry-run", "--username", "admin", "--password", "admin", "--jcr-path", "/content/site", "--local-path", "/tmp/export"},
			expectedOutput: "vlt export --credentials **** " + testDefaultURIConstant + " /content/site /tmp/export\n",
		},
		{
			name:      "configured_toggle_switched_off_per_call",
			arguments: []string{"status", "--dry-run", "--verbose", "no"},
			configuration: "vault:\n" +
				"  defaults:\n" +
				"    username: admin\n" +
				"    password: admin\n" +
				"    verbose: true\n" +
				"    recursive: yes\n",
			expectedOutput: "vlt status --credentials **** --recursive " + testDefaultURIConstant + "\n",
		},
		{
			name:      "configured_credentials_win_over_username_and_password",
			arguments: []string{"info", "--dry-run=yes", "--file", "a.txt", "--file", "b.txt"},
			configuration: "vault:\n" +
				"  executable: /opt/vault-cli/bin/vlt\n" +
				"  defaults:\n" +
				"    credentials: author:secret\n" +
				"    quiet: true\n",
			expectedOutput: "/opt/vault-cli/bin/vlt info --credentials **** --quiet " + testDefaultURIConstant + " a.txt b.txt\n",
		},
		{
			name:           "environment_overrides_uri",
			arguments:      []string{"sync", "--dry-run", "--command", "status", "--executable", "vlt"},
			environment: map[string]string{
				"FILEVAULT_VAULT_DEFAULTS_URI":         testEnvironmentURIConstant,
				"FILEVAULT_VAULT_DEFAULTS_CREDENTIALS": "admin:admin",
			},
			expectedOutput: "vlt sync --credentials **** --uri " + testEnvironmentURIConstant + " status\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			arguments := testCase.arguments
			if len(testCase.configuration) > 0 {
				arguments = append([]string{"--config", writeConfigurationFile(testInstance, testCase.configuration)}, arguments...)
			}

			executor := &recordingVaultExecutor{}
			output, executionError := runApplication(testInstance, executor, arguments...)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, output)
			require.Empty(testInstance, executor.commands)
		})
	}
}

func TestApplicationRunsVaultAndPrintsStandardOutput(testInstance *testing.T) {
	executor := &recordingVaultExecutor{result: execshell.ExecutionResult{StandardOutput: "Transmitting file data...\nCommitted revision.\n"}}

	output, executionError := runApplication(testInstance, executor, "commit", "--credentials", "admin:admin", "--force", "--file", "a.txt", "--file", "b.txt")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "Transmitting file data...\nCommitted revision.\n", output)

	require.Len(testInstance, executor.commands, 1)
	recordedCommand := executor.commands[0]
	require.Equal(testInstance, execshell.CommandVault, recordedCommand.Name)
	require.Equal(testInstance, []string{"commit", "--credentials", "admin:admin", "--force", testDefaultURIConstant, "a.txt", "b.txt"}, recordedCommand.Details.Arguments)
	require.Contains(testInstance, recordedCommand.Details.SensitiveValues, "admin:admin")
	require.Empty(testInstance, recordedCommand.Details.EnvironmentVariables)
}

func TestApplicationPassesConfiguredEnvironment(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, "vault:\n"+
		"  environment:\n"+
		"    java_opts: -Xmx2g\n"+
		"    VLT_OPTS: -Dvlt.trace=true\n"+
		"  defaults:\n"+
		"    credentials: admin:admin\n")
	executor := &recordingVaultExecutor{}

	_, executionError := runApplication(testInstance, executor, "--config", configurationFilePath, "status")
	require.NoError(testInstance, executionError)

	require.Len(testInstance, executor.commands, 1)
	require.Equal(testInstance,
		map[string]string{"JAVA_OPTS": "-Xmx2g", "VLT_OPTS": "-Dvlt.trace=true"},
		executor.commands[0].Details.EnvironmentVariables,
	)
}

func TestApplicationSurfacesProcessFailure(testInstance *testing.T) {
	failingCommand := execshell.ShellCommand{
		Name: execshell.CommandVault,
		Details: execshell.CommandDetails{
			Arguments:       []string{"update", "--credentials", "admin:admin"},
			SensitiveValues: []string{"admin:admin"},
		},
	}
	executor := &recordingVaultExecutor{err: execshell.CommandFailedError{
		Command: failingCommand,
		Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "[ERROR] not a working copy"},
	}}

	output, executionError := runApplication(testInstance, executor, "update", "--credentials", "admin:admin")
	require.Error(testInstance, executionError)
	require.Empty(testInstance, output)

	var processError vault.ProcessError
	require.ErrorAs(testInstance, executionError, &processError)
	require.Equal(testInstance, "[ERROR] not a working copy", processError.StandardError())
	require.Equal(testInstance, 1, processError.ExitCode())
	require.NotContains(testInstance, executionError.Error(), "admin:admin")
}

func TestApplicationRejectsInvalidInvocations(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{
			name:          "positional_arguments",
			arguments:     []string{"info", "extra"},
			expectedError: "does not accept positional arguments",
		},
		{
			name:          "unsupported_log_level",
			arguments:     []string{"--log-level", "chatty", "info"},
			expectedError: "unable to create logger",
		},
		{
			name:          "missing_configuration_file",
			arguments:     []string{"--config", "/nonexistent/filevault.yaml", "info"},
			expectedError: "unable to load configuration",
		},
		{
			name:          "invalid_toggle_literal",
			arguments:     []string{"status", "--force=perhaps"},
			expectedError: "invalid toggle value",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingVaultExecutor{}
			_, executionError := runApplication(testInstance, executor, testCase.arguments...)
			require.Error(testInstance, executionError)
			require.Contains(testInstance, executionError.Error(), testCase.expectedError)
			require.Empty(testInstance, executor.commands)
		})
	}
}

func TestApplicationMissingCredentialsFailBeforeRunning(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "embedded_defaults_only", arguments: []string{"status"}},
		{name: "username_without_password", arguments: []string{"status", "--username", "admin"}},
		{name: "dry_run", arguments: []string{"export", "--dry-run", "--password", "admin"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingVaultExecutor{}

			output, executionError := runApplication(testInstance, executor, testCase.arguments...)
			require.Error(testInstance, executionError)
			require.Empty(testInstance, output)

			var configurationError vault.ConfigurationError
			require.ErrorAs(testInstance, executionError, &configurationError)
			require.ErrorIs(testInstance, executionError, vault.ErrCredentialsMissing)
			require.Empty(testInstance, executor.commands)
		})
	}
}

func TestApplicationRegistersEveryVaultSubcommand(testInstance *testing.T) {
	isolateUserConfiguration(testInstance)
	application := NewApplication()

	for _, subcommand := range vault.Subcommands() {
		command, _, findError := application.rootCommand.Find([]string{string(subcommand)})
		require.NoError(testInstance, findError)
		require.Equal(testInstance, string(subcommand), command.Name())
	}
}

func TestConfigurationCommandPrintsMaskedConfiguration(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, "vault:\n"+
		"  working_directory: /srv/content\n"+
		"  defaults:\n"+
		"    credentials: author:secret\n"+
		"    username: admin\n"+
		"    password: hunter22\n")

	output, executionError := runApplication(testInstance, &recordingVaultExecutor{}, "--config", configurationFilePath, "config")
	require.NoError(testInstance, executionError)
	require.NotContains(testInstance, output, "secret")
	require.NotContains(testInstance, output, "hunter22")

	printedConfiguration := map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &printedConfiguration))

	vaultSection, vaultSectionFound := printedConfiguration["vault"].(map[string]any)
	require.True(testInstance, vaultSectionFound)
	require.Equal(testInstance, "vlt", vaultSection["executable"])
	require.Equal(testInstance, "/srv/content", vaultSection["working_directory"])

	defaultsSection, defaultsSectionFound := vaultSection["defaults"].(map[string]any)
	require.True(testInstance, defaultsSectionFound)
	require.Equal(testInstance, "author:****", defaultsSection["credentials"])
	require.Equal(testInstance, "****", defaultsSection["password"])
	require.Equal(testInstance, "admin", defaultsSection["username"])
	require.Equal(testInstance, testDefaultURIConstant, defaultsSection["uri"])
}

func TestEmbeddedDefaultConfigurationIsValidYAML(testInstance *testing.T) {
	configurationContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, configurationTypeConstant, configurationType)

	parsedConfiguration := struct {
		Common ApplicationCommonConfiguration `yaml:"common"`
		Vault  struct {
			Executable string            `yaml:"executable"`
			Defaults   map[string]string `yaml:"defaults"`
		} `yaml:"vault"`
	}{}
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &parsedConfiguration))
	require.Equal(testInstance, "info", parsedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "structured", parsedConfiguration.Common.LogFormat)
	require.Equal(testInstance, "vlt", parsedConfiguration.Vault.Executable)
	require.Equal(testInstance, testDefaultURIConstant, parsedConfiguration.Vault.Defaults["uri"])
	require.NotContains(testInstance, parsedConfiguration.Vault.Defaults, "username")
	require.NotContains(testInstance, parsedConfiguration.Vault.Defaults, "password")
	require.NotContains(testInstance, parsedConfiguration.Vault.Defaults, "credentials")
}
