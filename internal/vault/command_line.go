package vault

import (
	"strconv"
	"strings"

	"github.com/temirov/filevault/internal/execshell"
)

const (
	commandLineJoinSeparatorConstant = " "
	extendedJCRLogFlagConstant       = "-Xjcrlog"
	extendedDavexFlagConstant        = "-Xdavex"
	configFlagConstant               = "--config"
	logLevelFlagConstant             = "--log-level"
	typeFlagConstant                 = "--type"
	credentialsFlagConstant          = "--credentials"
	filterFlagConstant               = "--filter"
	linkFormatFlagConstant           = "--linkFormat"
	consoleSettingsFlagConstant      = "--console-settings"
	batchSizeFlagConstant            = "--batchSize"
	throttleFlagConstant             = "--throttle"
	uriFlagConstant                  = "--uri"
	excludeFlagConstant              = "--exclude"
	recursiveFlagConstant            = "--recursive"
	nonRecursiveFlagConstant         = "--non-recursive"
	pruneMissingFlagConstant         = "--prune-missing"
	syncFlagConstant                 = "--sync"
	showUpdateFlagConstant           = "--show-update"
	forceFlagConstant                = "--force"
	newerFlagConstant                = "--newer"
	updateFlagConstant               = "--update"
	verboseFlagConstant              = "--verbose"
	quietFlagConstant                = "--quiet"
	versionFlagConstant              = "--version"
)

// CommandLine is an ordered vlt invocation: executable, subcommand, flags, positionals.
type CommandLine []string

// Executable returns the first token.
func (commandLine CommandLine) Executable() string {
	if len(commandLine) == 0 {
		return ""
	}
	return commandLine[0]
}

// Arguments returns every token after the executable.
func (commandLine CommandLine) Arguments() []string {
	if len(commandLine) < 2 {
		return nil
	}
	return append([]string{}, commandLine[1:]...)
}

// Tokens returns a copy of the full token list.
func (commandLine CommandLine) Tokens() []string {
	return append([]string{}, commandLine...)
}

// String joins the tokens with single spaces.
func (commandLine CommandLine) String() string {
	return strings.Join(commandLine, commandLineJoinSeparatorConstant)
}

type renderingContext struct {
	subcommand      Subcommand
	options         Options
	credentials     string
	expandSequences bool
}

type argumentRule struct {
	name   string
	render func(context renderingContext) []string
}

// flagRules lists every flag in emission order.
var flagRules = []argumentRule{
	{name: "Xjcrlog", render: valuedFlag(extendedJCRLogFlagConstant, func(options Options) string { return options.ExtendedJCRLog })},
	{name: "Xdavex", render: valuedFlag(extendedDavexFlagConstant, func(options Options) string { return options.ExtendedDavex })},
	{name: "config", render: valuedFlag(configFlagConstant, func(options Options) string { return options.Config })},
	{name: "logLevel", render: valuedFlag(logLevelFlagConstant, func(options Options) string { return options.LogLevel })},
	{name: "type", render: valuedFlag(typeFlagConstant, func(options Options) string { return options.Type })},
	{name: "credentials", render: func(context renderingContext) []string {
		return []string{credentialsFlagConstant, context.credentials}
	}},
	{name: "filter", render: valuedFlag(filterFlagConstant, func(options Options) string { return options.Filter })},
	{name: "linkFormat", render: valuedFlag(linkFormatFlagConstant, func(options Options) string { return options.LinkFormat })},
	{name: "settings", render: valuedFlag(consoleSettingsFlagConstant, func(options Options) string { return options.Settings })},
	{name: "batchSize", render: numericFlag(batchSizeFlagConstant, func(options Options) int { return options.BatchSize })},
	{name: "throttle", render: numericFlag(throttleFlagConstant, func(options Options) int { return options.Throttle })},
	{name: "uri", render: func(context renderingContext) []string {
		if context.subcommand != SubcommandSync || len(context.options.URI) == 0 {
			return nil
		}
		return []string{uriFlagConstant, context.options.URI}
	}},
	{name: "exclude", render: sequenceFlag(excludeFlagConstant, func(options Options) PathList { return options.Exclude })},
	{name: "recursive", render: exclusiveSwitch(
		recursiveFlagConstant, func(options Options) Toggle { return options.Recursive },
		nonRecursiveFlagConstant, func(options Options) Toggle { return options.NonRecursive },
	)},
	{name: "prune", render: switchFlag(pruneMissingFlagConstant, func(options Options) Toggle { return options.Prune })},
	{name: "sync", render: switchFlag(syncFlagConstant, func(options Options) Toggle { return options.Sync })},
	{name: "showUpdate", render: switchFlag(showUpdateFlagConstant, func(options Options) Toggle { return options.ShowUpdate })},
	{name: "force", render: switchFlag(forceFlagConstant, func(options Options) Toggle { return options.Force })},
	{name: "newer", render: switchFlag(newerFlagConstant, func(options Options) Toggle { return options.Newer })},
	{name: "update", render: switchFlag(updateFlagConstant, func(options Options) Toggle { return options.Update })},
	{name: "verbose", render: exclusiveSwitch(
		verboseFlagConstant, func(options Options) Toggle { return options.Verbose },
		quietFlagConstant, func(options Options) Toggle { return options.Quiet },
	)},
	{name: "version", render: switchFlag(versionFlagConstant, func(options Options) Toggle { return options.Version })},
}

// positionalRules lists every positional argument in emission order.
var positionalRules = []argumentRule{
	{name: "command", render: positional(func(options Options) string { return options.Command })},
	{name: "propname", render: positional(func(options Options) string { return options.PropertyName })},
	{name: "propval", render: positional(func(options Options) string { return options.PropertyValue })},
	{name: "uri", render: func(context renderingContext) []string {
		if context.subcommand == SubcommandSync || len(context.options.URI) == 0 {
			return nil
		}
		return []string{context.options.URI}
	}},
	{name: "src", render: positional(func(options Options) string { return options.Source })},
	{name: "dst", render: positional(func(options Options) string { return options.Destination })},
	{name: "jcrPath", render: positional(func(options Options) string { return options.JCRPath })},
	{name: "localPath", render: sequencePositional(func(options Options) PathList { return options.LocalPath })},
	{name: "file", render: sequencePositional(func(options Options) PathList { return options.File })},
}

// FlagRuleNames returns the option names of the flag rules in emission order.
func FlagRuleNames() []string {
	return ruleNames(flagRules)
}

// PositionalRuleNames returns the option names of the positional rules in emission order.
func PositionalRuleNames() []string {
	return ruleNames(positionalRules)
}

// BuildCommandLine renders the vlt invocation for a subcommand. It is a pure
// function of its inputs and fails with a ConfigurationError when the
// subcommand is unknown or credentials cannot be resolved.
func BuildCommandLine(executable string, subcommand Subcommand, options Options) (CommandLine, error) {
	return renderCommandLine(executable, subcommand, options, false)
}

// BuildProcessArguments renders the tokens handed to the vlt process. It matches
// BuildCommandLine except that every element of a sequence option (exclude,
// localPath, file) is its own token instead of being joined into one.
func BuildProcessArguments(executable string, subcommand Subcommand, options Options) (CommandLine, error) {
	return renderCommandLine(executable, subcommand, options, true)
}

func renderCommandLine(executable string, subcommand Subcommand, options Options, expandSequences bool) (CommandLine, error) {
	if !subcommand.IsValid() {
		return nil, ConfigurationError{Subcommand: subcommand, Cause: UnknownSubcommandError{Name: string(subcommand)}}
	}

	credentials, credentialsError := ResolveCredentials(options)
	if credentialsError != nil {
		return nil, ConfigurationError{Subcommand: subcommand, Cause: credentialsError}
	}

	trimmedExecutable := strings.TrimSpace(executable)
	if len(trimmedExecutable) == 0 {
		trimmedExecutable = string(execshell.CommandVault)
	}

	context := renderingContext{
		subcommand:      subcommand,
		options:         options,
		credentials:     credentials,
		expandSequences: expandSequences,
	}
	commandLine := CommandLine{trimmedExecutable, string(subcommand)}
	for _, rule := range flagRules {
		commandLine = append(commandLine, rule.render(context)...)
	}
	for _, rule := range positionalRules {
		commandLine = append(commandLine, rule.render(context)...)
	}

	return commandLine, nil
}

func ruleNames(rules []argumentRule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.name)
	}
	return names
}

func valuedFlag(flag string, selector func(Options) string) func(renderingContext) []string {
	return func(context renderingContext) []string {
		value := selector(context.options)
		if len(value) == 0 {
			return nil
		}
		return []string{flag, value}
	}
}

func numericFlag(flag string, selector func(Options) int) func(renderingContext) []string {
	return func(context renderingContext) []string {
		value := selector(context.options)
		if value == 0 {
			return nil
		}
		return []string{flag, strconv.Itoa(value)}
	}
}

func switchFlag(flag string, selector func(Options) Toggle) func(renderingContext) []string {
	return func(context renderingContext) []string {
		if !selector(context.options).Enabled() {
			return nil
		}
		return []string{flag}
	}
}

// exclusiveSwitch emits the preferred flag when enabled and the alternative only otherwise.
func exclusiveSwitch(preferredFlag string, preferredSelector func(Options) Toggle, alternativeFlag string, alternativeSelector func(Options) Toggle) func(renderingContext) []string {
	return func(context renderingContext) []string {
		if preferredSelector(context.options).Enabled() {
			return []string{preferredFlag}
		}
		if alternativeSelector(context.options).Enabled() {
			return []string{alternativeFlag}
		}
		return nil
	}
}

func positional(selector func(Options) string) func(renderingContext) []string {
	return func(context renderingContext) []string {
		value := selector(context.options)
		if len(value) == 0 {
			return nil
		}
		return []string{value}
	}
}

func sequenceFlag(flag string, selector func(Options) PathList) func(renderingContext) []string {
	return func(context renderingContext) []string {
		values := sequenceTokens(context, selector(context.options))
		if len(values) == 0 {
			return nil
		}
		return append([]string{flag}, values...)
	}
}

func sequencePositional(selector func(Options) PathList) func(renderingContext) []string {
	return func(context renderingContext) []string {
		return sequenceTokens(context, selector(context.options))
	}
}

// sequenceTokens flattens the list into one token, or keeps one token per
// non-empty element when the context expands sequences.
func sequenceTokens(context renderingContext, pathList PathList) []string {
	if !context.expandSequences {
		token := pathList.Token()
		if len(token) == 0 {
			return nil
		}
		return []string{token}
	}

	tokens := make([]string, 0, len(pathList))
	for _, element := range pathList {
		if len(element) == 0 {
			continue
		}
		tokens = append(tokens, element)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
