package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/filevault/internal/utils"
)

const (
	configurationCommandUseConstant           = "config"
	configurationCommandShortConstant         = "Print the effective configuration"
	configurationCommandLongConstant          = "config prints the configuration after merging the embedded defaults, configuration files, environment variables, and persistent flags. Secrets are masked."
	configurationEncodeErrorTemplateConstant  = "unable to render configuration: %w"
	configurationYAMLIndentConstant           = 2
	maskedConfigurationValueConstant          = "****"
	maskedCredentialsSeparatorConstant        = ":"
	configurationCommandArgumentsErrorMessage = "config does not accept arguments"
)

// ConfigurationProvider supplies the effective application configuration.
type ConfigurationProvider func() ApplicationConfiguration

// ConfigurationCommandBuilder assembles the command that prints the effective configuration.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the config command.
func (builder ConfigurationCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortConstant,
		Long:  configurationCommandLongConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) > 0 {
				return errors.New(configurationCommandArgumentsErrorMessage)
			}
			return builder.run(command)
		},
	}
}

func (builder ConfigurationCommandBuilder) run(command *cobra.Command) error {
	configuration := ApplicationConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	encoder := yaml.NewEncoder(utils.NewFlushingWriter(command.OutOrStdout()))
	encoder.SetIndent(configurationYAMLIndentConstant)
	if encodeError := encoder.Encode(maskConfiguration(configuration)); encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplateConstant, closeError)
	}
	return nil
}

// maskConfiguration hides passwords while keeping the user name of user:password credentials visible.
func maskConfiguration(configuration ApplicationConfiguration) ApplicationConfiguration {
	masked := configuration
	masked.Vault.Defaults = configuration.Vault.Defaults.Clone()

	if len(masked.Vault.Defaults.Password) > 0 {
		masked.Vault.Defaults.Password = maskedConfigurationValueConstant
	}

	credentials := masked.Vault.Defaults.Credentials
	if len(credentials) > 0 {
		userName, _, hasSeparator := strings.Cut(credentials, maskedCredentialsSeparatorConstant)
		if hasSeparator {
			masked.Vault.Defaults.Credentials = userName + maskedCredentialsSeparatorConstant + maskedConfigurationValueConstant
		} else {
			masked.Vault.Defaults.Credentials = maskedConfigurationValueConstant
		}
	}

	return masked
}
