package vault

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/filevault/internal/execshell"
)

const (
	configurationKeySeparatorConstant   = "."
	executableConfigurationKeyConstant  = "executable"
	workingDirectoryConfigurationKey    = "working_directory"
	defaultsConfigurationKeyConstant    = "defaults"
	credentialsConfigurationKeyConstant = "credentials"
	usernameConfigurationKeyConstant    = "username"
	passwordConfigurationKeyConstant    = "password"
	uriConfigurationKeyConstant         = "uri"
	toggleDecodeErrorTemplateConstant   = "cannot decode %T into a toggle"
	pathListDecodeErrorTemplateConstant = "cannot decode %T into a path list"
	environmentDecodeErrorTemplate      = "cannot decode %T into an environment"
)

var (
	toggleType      = reflect.TypeOf(ToggleUnset)
	pathListType    = reflect.TypeOf(PathList(nil))
	environmentType = reflect.TypeOf(Environment(nil))
)

// DefaultClientConfiguration returns the configuration used when nothing is configured.
func DefaultClientConfiguration() ClientConfiguration {
	return ClientConfiguration{Executable: string(execshell.CommandVault)}
}

// DefaultConfigurationValues returns viper defaults rooted at prefix. Credential and
// uri keys are registered so they can be supplied through environment variables.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaultsPrefix := joinConfigurationKey(prefix, defaultsConfigurationKeyConstant)
	return map[string]any{
		joinConfigurationKey(prefix, executableConfigurationKeyConstant):          string(execshell.CommandVault),
		joinConfigurationKey(prefix, workingDirectoryConfigurationKey):            "",
		joinConfigurationKey(defaultsPrefix, credentialsConfigurationKeyConstant): "",
		joinConfigurationKey(defaultsPrefix, usernameConfigurationKeyConstant):    "",
		joinConfigurationKey(defaultsPrefix, passwordConfigurationKeyConstant):    "",
		joinConfigurationKey(defaultsPrefix, uriConfigurationKeyConstant):         "",
	}
}

// DecodeHook returns the mapstructure hook that decodes Toggle and PathList values
// from booleans, yes/no strings, single strings, and sequences. Environment
// names are upper-cased because viper folds configuration keys to lower case.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(decodeToggle),
		mapstructure.DecodeHookFuncType(decodePathList),
		mapstructure.DecodeHookFuncType(decodeEnvironment),
	)
}

// MarshalYAML renders set toggles as booleans and unset toggles as null.
func (toggle Toggle) MarshalYAML() (interface{}, error) {
	if !toggle.IsSet() {
		return nil, nil
	}
	return toggle.Enabled(), nil
}

func decodeToggle(sourceType reflect.Type, targetType reflect.Type, data interface{}) (interface{}, error) {
	if targetType != toggleType {
		return data, nil
	}

	switch typedData := data.(type) {
	case nil:
		return ToggleUnset, nil
	case Toggle:
		return typedData, nil
	case bool:
		return ToggleOf(typedData), nil
	case string:
		if len(strings.TrimSpace(typedData)) == 0 {
			return ToggleUnset, nil
		}
		return ParseToggle(typedData)
	case int:
		return ToggleOf(typedData != 0), nil
	default:
		return nil, fmt.Errorf(toggleDecodeErrorTemplateConstant, data)
	}
}

func decodePathList(sourceType reflect.Type, targetType reflect.Type, data interface{}) (interface{}, error) {
	if targetType != pathListType {
		return data, nil
	}

	switch typedData := data.(type) {
	case nil:
		return PathList(nil), nil
	case PathList:
		return typedData.Clone(), nil
	case string:
		if len(strings.TrimSpace(typedData)) == 0 {
			return PathList(nil), nil
		}
		return SinglePath(typedData), nil
	case []string:
		return PathList(append([]string{}, typedData...)), nil
	case []interface{}:
		pathList := make(PathList, 0, len(typedData))
		for _, element := range typedData {
			pathList = append(pathList, fmt.Sprint(element))
		}
		return pathList, nil
	default:
		return nil, fmt.Errorf(pathListDecodeErrorTemplateConstant, data)
	}
}

func decodeEnvironment(sourceType reflect.Type, targetType reflect.Type, data interface{}) (interface{}, error) {
	if targetType != environmentType {
		return data, nil
	}

	rawVariables := map[string]string{}
	switch typedData := data.(type) {
	case nil:
		return Environment(nil), nil
	case Environment:
		rawVariables = typedData
	case map[string]string:
		rawVariables = typedData
	case map[string]interface{}:
		for variableName, variableValue := range typedData {
			rawVariables[variableName] = fmt.Sprint(variableValue)
		}
	default:
		return nil, fmt.Errorf(environmentDecodeErrorTemplate, data)
	}

	environment := make(Environment, len(rawVariables))
	for variableName, variableValue := range rawVariables {
		normalizedName := strings.ToUpper(strings.TrimSpace(variableName))
		if len(normalizedName) == 0 {
			continue
		}
		environment[normalizedName] = variableValue
	}
	return environment, nil
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
