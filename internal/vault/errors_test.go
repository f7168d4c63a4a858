package vault_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filevault/internal/vault"
)

func TestErrorMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "configuration_error",
			err:             vault.ConfigurationError{Subcommand: vault.SubcommandExport, Cause: vault.ErrCredentialsMissing},
			expectedMessage: "vlt export configuration invalid: credentials missing: provide credentials or both username and password",
		},
		{
			name:            "configuration_error_without_cause",
			err:             vault.ConfigurationError{Subcommand: vault.SubcommandExport},
			expectedMessage: "vlt export configuration invalid",
		},
		{
			name:            "process_error",
			err:             vault.ProcessError{Subcommand: vault.SubcommandSync, Cause: errors.New("signal: killed")},
			expectedMessage: "vlt sync failed: signal: killed",
		},
		{
			name:            "process_error_without_cause",
			err:             vault.ProcessError{Subcommand: vault.SubcommandSync},
			expectedMessage: "vlt sync failed",
		},
		{
			name:            "unknown_subcommand",
			err:             vault.UnknownSubcommandError{Name: "mount"},
			expectedMessage: `unknown vlt subcommand "mount"`,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.EqualError(testInstance, testCase.err, testCase.expectedMessage)
		})
	}
}
