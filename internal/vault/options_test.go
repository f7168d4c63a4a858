package vault_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filevault/internal/vault"
)

func TestMergeOptionsOverridesWin(testInstance *testing.T) {
	defaults := vault.Options{
		Verbose:   vault.ToggleEnabled,
		Force:     vault.ToggleEnabled,
		Username:  "admin",
		Password:  "admin",
		URI:       "http://localhost:4502/crx",
		BatchSize: 50,
		Exclude:   vault.PathList{".vlt"},
	}
	overrides := vault.Options{
		Verbose:   vault.ToggleDisabled,
		Quiet:     vault.ToggleEnabled,
		URI:       "http://localhost:4503/crx",
		BatchSize: 200,
		Exclude:   vault.PathList{"*.css", "*.js"},
	}

	merged := vault.MergeOptions(defaults, overrides)

	require.Equal(testInstance, vault.ToggleDisabled, merged.Verbose)
	require.Equal(testInstance, vault.ToggleEnabled, merged.Quiet)
	require.Equal(testInstance, vault.ToggleEnabled, merged.Force)
	require.Equal(testInstance, "admin", merged.Username)
	require.Equal(testInstance, "admin", merged.Password)
	require.Equal(testInstance, "http://localhost:4503/crx", merged.URI)
	require.Equal(testInstance, 200, merged.BatchSize)
	require.Equal(testInstance, vault.PathList{"*.css", "*.js"}, merged.Exclude)
}

func TestMergeOptionsKeepsDefaultsForUnsetOverrides(testInstance *testing.T) {
	defaults := vault.Options{
		Recursive: vault.ToggleEnabled,
		Throttle:  2,
		LocalPath: vault.PathList{"jcr_root"},
		Type:      "jar",
	}

	merged := vault.MergeOptions(defaults, vault.Options{})

	require.Equal(testInstance, defaults, merged)
}

func TestMergeOptionsDoesNotAliasInputs(testInstance *testing.T) {
	defaults := vault.Options{File: vault.PathList{"a.txt"}}
	overrides := vault.Options{Exclude: vault.PathList{"*.tmp"}}

	merged := vault.MergeOptions(defaults, overrides)
	merged.File[0] = "changed.txt"
	merged.Exclude[0] = "changed"

	require.Equal(testInstance, vault.PathList{"a.txt"}, defaults.File)
	require.Equal(testInstance, vault.PathList{"*.tmp"}, overrides.Exclude)
}

func TestParseToggle(testInstance *testing.T) {
	testCases := []struct {
		input          string
		expectedToggle vault.Toggle
		expectError    bool
	}{
		{input: "yes", expectedToggle: vault.ToggleEnabled},
		{input: " TRUE ", expectedToggle: vault.ToggleEnabled},
		{input: "on", expectedToggle: vault.ToggleEnabled},
		{input: "1", expectedToggle: vault.ToggleEnabled},
		{input: "no", expectedToggle: vault.ToggleDisabled},
		{input: "Off", expectedToggle: vault.ToggleDisabled},
		{input: "0", expectedToggle: vault.ToggleDisabled},
		{input: "y", expectedToggle: vault.ToggleEnabled},
		{input: "F", expectedToggle: vault.ToggleDisabled},
		{input: "maybe", expectedToggle: vault.ToggleUnset, expectError: true},
		{input: " ", expectedToggle: vault.ToggleUnset, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.input, func(testInstance *testing.T) {
			toggle, parseError := vault.ParseToggle(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
			} else {
				require.NoError(testInstance, parseError)
			}
			require.Equal(testInstance, testCase.expectedToggle, toggle)
		})
	}
}

func TestToggleStates(testInstance *testing.T) {
	require.False(testInstance, vault.ToggleUnset.IsSet())
	require.False(testInstance, vault.ToggleUnset.Enabled())
	require.True(testInstance, vault.ToggleDisabled.IsSet())
	require.False(testInstance, vault.ToggleDisabled.Enabled())
	require.True(testInstance, vault.ToggleOf(true).Enabled())
	require.Equal(testInstance, vault.ToggleDisabled, vault.ToggleOf(false))
	require.Equal(testInstance, "unset", vault.ToggleUnset.String())
	require.Equal(testInstance, "true", vault.ToggleEnabled.String())
	require.Equal(testInstance, "false", vault.ToggleDisabled.String())
}

func TestPathListFlattening(testInstance *testing.T) {
	require.Equal(testInstance, "a.txt", vault.SinglePath("a.txt").Token())
	require.Equal(testInstance, "a.txt b.txt c.txt", vault.PathList{"a.txt", "b.txt", "c.txt"}.Token())
	require.False(testInstance, vault.PathList(nil).IsSet())
	require.Nil(testInstance, vault.PathList(nil).Clone())
}

func TestOptionsCloneIsIndependent(testInstance *testing.T) {
	original := vault.Options{Exclude: vault.PathList{"x"}, LocalPath: vault.PathList{"y"}, File: vault.PathList{"z"}}
	cloned := original.Clone()
	cloned.Exclude[0] = "changed"
	cloned.LocalPath[0] = "changed"
	cloned.File[0] = "changed"

	require.Equal(testInstance, vault.PathList{"x"}, original.Exclude)
	require.Equal(testInstance, vault.PathList{"y"}, original.LocalPath)
	require.Equal(testInstance, vault.PathList{"z"}, original.File)
}
