package vault

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/filevault/internal/execshell"
	"github.com/temirov/filevault/internal/ui"
	"github.com/temirov/filevault/internal/utils"
	flagutils "github.com/temirov/filevault/internal/utils/flags"
)

const (
	commandShortDescriptionTemplateConstant = "Run vlt %s"
	commandLongDescriptionTemplateConstant  = "%s runs \"vlt %s\" with the configured defaults; flags given here override them for this call."
	outputWriteErrorTemplateConstant        = "unable to write vlt %s output: %w"
	unexpectedArgumentsTemplateConstant     = "%s does not accept positional arguments; use --src, --dst, --jcr-path, --local-path, or --file"
	dryRunOutputTemplateConstant            = "%s\n"
	commandCompletedMessageConstant         = "vlt command completed"
	logFieldSubcommandConstant              = "subcommand"
	logFieldOutputBytesConstant             = "output_bytes"
	exportTypePlatformConstant              = "platform"
	exportTypeJarConstant                   = "jar"
)

var subcommandDescriptions = map[Subcommand]string{
	SubcommandExport:   "Export content from the repository to the local file system",
	SubcommandImport:   "Import local file system content into the repository",
	SubcommandCheckout: "Check out a working copy of repository content",
	SubcommandAnalyze:  "Analyze installed packages",
	SubcommandStatus:   "Print the status of working copy files",
	SubcommandUpdate:   "Bring changes from the repository into the working copy",
	SubcommandInfo:     "Display information about local files",
	SubcommandCommit:   "Send changes from the working copy to the repository",
	SubcommandRevert:   "Restore working copy files to their original state",
	SubcommandResolved: "Remove the conflicted state from working copy files",
	SubcommandPropGet:  "Print the value of a property on files or directories",
	SubcommandPropList: "Print the properties on files or directories",
	SubcommandPropSet:  "Set the value of a property on files or directories",
	SubcommandAdd:      "Put files and directories under version control",
	SubcommandDelete:   "Remove files and directories from version control",
	SubcommandDiff:     "Display differences between two paths",
	SubcommandConsole:  "Run an interactive vlt console",
	SubcommandRcp:      "Copy a node tree from one remote repository to another",
	SubcommandSync:     "Control the vault sync service",
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the client configuration resolved at execution time.
type ConfigurationProvider func() ClientConfiguration

// ExecutorProvider supplies a preconfigured executor; returning nil selects the operating system runner.
type ExecutorProvider func() CommandExecutor

// CommandBuilder assembles one Cobra command per vlt subcommand. The dry-run
// state is read from the command context through utils.CommandContextAccessor.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	ExecutorProvider             ExecutorProvider
}

// BuildAll constructs commands for every supported subcommand.
func (builder *CommandBuilder) BuildAll() ([]*cobra.Command, error) {
	commands := make([]*cobra.Command, 0, len(supportedSubcommands))
	for _, subcommand := range supportedSubcommands {
		command, buildError := builder.Build(subcommand)
		if buildError != nil {
			return nil, buildError
		}
		commands = append(commands, command)
	}
	return commands, nil
}

// Build constructs the command for one subcommand.
func (builder *CommandBuilder) Build(subcommand Subcommand) (*cobra.Command, error) {
	if !subcommand.IsValid() {
		return nil, UnknownSubcommandError{Name: string(subcommand)}
	}

	command := &cobra.Command{
		Use:   string(subcommand),
		Short: subcommandDescriptions[subcommand],
		Long:  fmt.Sprintf(commandLongDescriptionTemplateConstant, subcommand, subcommand),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, subcommand, arguments)
		},
	}
	if len(command.Short) == 0 {
		command.Short = fmt.Sprintf(commandShortDescriptionTemplateConstant, subcommand)
	}

	registerOptionFlags(command.Flags())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, subcommand Subcommand, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf(unexpectedArgumentsTemplateConstant, subcommand)
	}

	overrides, parseError := parseOptionFlags(command.Flags())
	if parseError != nil {
		return parseError
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	client, clientError := NewClient(configuration, executor)
	if clientError != nil {
		return clientError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())

	if utils.NewCommandContextAccessor().DryRunEnabled(command.Context()) {
		return builder.printCommandLine(outputWriter, client, subcommand, overrides)
	}

	standardOutput, runError := client.Run(command.Context(), subcommand, overrides)
	if runError != nil {
		return runError
	}

	logger.Debug(commandCompletedMessageConstant,
		zap.String(logFieldSubcommandConstant, string(subcommand)),
		zap.Int(logFieldOutputBytesConstant, len(standardOutput)),
	)

	if _, writeError := io.WriteString(outputWriter, standardOutput); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, subcommand, writeError)
	}

	return nil
}

func (builder *CommandBuilder) printCommandLine(outputWriter io.Writer, client *Client, subcommand Subcommand, overrides Options) error {
	commandLine, buildError := client.CommandLine(subcommand, overrides)
	if buildError != nil {
		return buildError
	}

	mergedOptions := MergeOptions(client.configuration.Defaults, overrides)
	credentials, _ := ResolveCredentials(mergedOptions)
	maskedTokens := execshell.RedactArguments(commandLine.Tokens(), sensitiveValues(mergedOptions, credentials))

	if _, writeError := fmt.Fprintf(outputWriter, dryRunOutputTemplateConstant, strings.Join(maskedTokens, commandLineJoinSeparatorConstant)); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, subcommand, writeError)
	}
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() ClientConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultClientConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.ExecutorProvider != nil {
		if executor := builder.ExecutorProvider(); executor != nil {
			return executor, nil
		}
	}

	commandRunner := execshell.NewOSCommandRunner()
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

type optionFlagKind int

const (
	optionFlagKindString optionFlagKind = iota
	optionFlagKindInt
	optionFlagKindToggle
	optionFlagKindList
)

type optionFlagDefinition struct {
	name        string
	usage       string
	kind        optionFlagKind
	applyString func(options *Options, value string)
	applyInt    func(options *Options, value int)
	applyToggle func(options *Options, value Toggle)
	applyList   func(options *Options, value PathList)
}

var optionFlagDefinitions = []optionFlagDefinition{
	toggleOption("verbose", "Verbose output (wins over --quiet)", func(options *Options, value Toggle) { options.Verbose = value }),
	toggleOption("quiet", "Print as little as possible", func(options *Options, value Toggle) { options.Quiet = value }),
	toggleOption("version", "Print vlt version information", func(options *Options, value Toggle) { options.Version = value }),
	stringOption("xjcrlog", "Extended JcrLog options (-Xjcrlog)", func(options *Options, value string) { options.ExtendedJCRLog = value }),
	stringOption("xdavex", "Extended JCR remoting options (-Xdavex)", func(options *Options, value string) { options.ExtendedDavex = value }),
	stringOption("vlt-config", "JcrFs configuration passed to vlt --config", func(options *Options, value string) { options.Config = value }),
	stringOption("vlt-log-level", "Log level passed to vlt --log-level", func(options *Options, value string) { options.LogLevel = value }),
	stringOption("credentials", "Credentials as user:password (wins over --username/--password)", func(options *Options, value string) { options.Credentials = value }),
	stringOption("username", "Repository user name", func(options *Options, value string) { options.Username = value }),
	stringOption("password", "Repository password", func(options *Options, value string) { options.Password = value }),
	stringOption("filter", "Workspace filter file", func(options *Options, value string) { options.Filter = value }),
	stringOption("link-format", "printf format for hotfix links (--linkFormat)", func(options *Options, value string) { options.LinkFormat = value }),
	stringOption("console-settings", "Console settings file", func(options *Options, value string) { options.Settings = value }),
	intOption("batch-size", "Number of nodes to process per save (--batchSize)", func(options *Options, value int) { options.BatchSize = value }),
	intOption("throttle", "Seconds to wait after each batch", func(options *Options, value int) { options.Throttle = value }),
	stringOption("uri", "Repository URI (a flag for sync, positional otherwise)", func(options *Options, value string) { options.URI = value }),
	listOption("exclude", "Exclusion pattern (repeatable)", func(options *Options, value PathList) { options.Exclude = value }),
	toggleOption("recursive", "Descend recursively (wins over --non-recursive)", func(options *Options, value Toggle) { options.Recursive = value }),
	toggleOption("non-recursive", "Operate on a single level", func(options *Options, value Toggle) { options.NonRecursive = value }),
	toggleOption("prune-missing", "Remove local files missing from the repository", func(options *Options, value Toggle) { options.Prune = value }),
	toggleOption("sync", "Put the local copy under vault control", func(options *Options, value Toggle) { options.Sync = value }),
	toggleOption("show-update", "Display update information", func(options *Options, value Toggle) { options.ShowUpdate = value }),
	toggleOption("force", "Force the operation", func(options *Options, value Toggle) { options.Force = value }),
	toggleOption("newer", "Respect lastModified properties when copying", func(options *Options, value Toggle) { options.Newer = value }),
	toggleOption("update", "Overwrite existing nodes when copying", func(options *Options, value Toggle) { options.Update = value }),
	stringOption("command", "Sync service command (install, status, register, ...)", func(options *Options, value string) { options.Command = value }),
	stringOption("propname", "Property name", func(options *Options, value string) { options.PropertyName = value }),
	stringOption("propval", "Property value", func(options *Options, value string) { options.PropertyValue = value }),
	stringOption("src", "Source repository address", func(options *Options, value string) { options.Source = value }),
	stringOption("dst", "Destination repository address", func(options *Options, value string) { options.Destination = value }),
	stringOption("jcr-path", "Repository path", func(options *Options, value string) { options.JCRPath = value }),
	listOption("local-path", "Local path (repeatable)", func(options *Options, value PathList) { options.LocalPath = value }),
	listOption("file", "Working copy file (repeatable)", func(options *Options, value PathList) { options.File = value }),
	stringOption("type", flagutils.FormatChoiceUsage("", []string{exportTypePlatformConstant, exportTypeJarConstant}, "Export type"), func(options *Options, value string) { options.Type = value }),
}

func stringOption(name string, usage string, apply func(options *Options, value string)) optionFlagDefinition {
	return optionFlagDefinition{name: name, usage: usage, kind: optionFlagKindString, applyString: apply}
}

func intOption(name string, usage string, apply func(options *Options, value int)) optionFlagDefinition {
	return optionFlagDefinition{name: name, usage: usage, kind: optionFlagKindInt, applyInt: apply}
}

func toggleOption(name string, usage string, apply func(options *Options, value Toggle)) optionFlagDefinition {
	return optionFlagDefinition{name: name, usage: usage, kind: optionFlagKindToggle, applyToggle: apply}
}

func listOption(name string, usage string, apply func(options *Options, value PathList)) optionFlagDefinition {
	return optionFlagDefinition{name: name, usage: usage, kind: optionFlagKindList, applyList: apply}
}

func registerOptionFlags(flagSet *pflag.FlagSet) {
	for _, definition := range optionFlagDefinitions {
		switch definition.kind {
		case optionFlagKindString:
			flagSet.String(definition.name, "", definition.usage)
		case optionFlagKindInt:
			flagSet.Int(definition.name, 0, definition.usage)
		case optionFlagKindToggle:
			flagutils.AddToggleFlag(flagSet, new(bool), definition.name, false, definition.usage)
		case optionFlagKindList:
			flagSet.StringArray(definition.name, nil, definition.usage)
		}
	}
}

// parseOptionFlags converts only the flags the user changed into call-time overrides.
func parseOptionFlags(flagSet *pflag.FlagSet) (Options, error) {
	var overrides Options
	for _, definition := range optionFlagDefinitions {
		if !flagSet.Changed(definition.name) {
			continue
		}

		switch definition.kind {
		case optionFlagKindString:
			value, lookupError := flagSet.GetString(definition.name)
			if lookupError != nil {
				return Options{}, lookupError
			}
			definition.applyString(&overrides, strings.TrimSpace(value))
		case optionFlagKindInt:
			value, lookupError := flagSet.GetInt(definition.name)
			if lookupError != nil {
				return Options{}, lookupError
			}
			definition.applyInt(&overrides, value)
		case optionFlagKindToggle:
			value, lookupError := flagSet.GetBool(definition.name)
			if lookupError != nil {
				return Options{}, lookupError
			}
			definition.applyToggle(&overrides, ToggleOf(value))
		case optionFlagKindList:
			value, lookupError := flagSet.GetStringArray(definition.name)
			if lookupError != nil {
				return Options{}, lookupError
			}
			definition.applyList(&overrides, PathList(value))
		}
	}
	return overrides, nil
}
