package execshell

import (
	"fmt"
	"path/filepath"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	subjectFailureTemplateConstant          = "Failed to %s (exit code %d%s)"
	subjectExecutionFailureTemplateConstant = "Unable to %s: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	redactedValuePlaceholderConstant        = "****"
)

type subcommandPhrases struct {
	start   string
	success string
	subject string
}

var vaultSubcommandPhrases = map[string]subcommandPhrases{
	"export":   {start: "Exporting repository content to %s", success: "Exported repository content to %s", subject: "export repository content to %s"},
	"import":   {start: "Importing %s into the repository", success: "Imported %s into the repository", subject: "import %s into the repository"},
	"checkout": {start: "Checking out repository content into %s", success: "Checked out repository content into %s", subject: "check out repository content into %s"},
	"analyze":  {start: "Analyzing packages in %s", success: "Analyzed packages in %s", subject: "analyze packages in %s"},
	"status":   {start: "Reviewing working copy status in %s", success: "Collected working copy status for %s", subject: "review working copy status in %s"},
	"update":   {start: "Updating working copy in %s", success: "Updated working copy in %s", subject: "update working copy in %s"},
	"info":     {start: "Reading working copy information in %s", success: "Read working copy information in %s", subject: "read working copy information in %s"},
	"commit":   {start: "Committing changes from %s", success: "Committed changes from %s", subject: "commit changes from %s"},
	"revert":   {start: "Reverting local changes in %s", success: "Reverted local changes in %s", subject: "revert local changes in %s"},
	"resolved": {start: "Marking conflicts resolved in %s", success: "Marked conflicts resolved in %s", subject: "mark conflicts resolved in %s"},
	"propget":  {start: "Reading property in %s", success: "Read property in %s", subject: "read property in %s"},
	"proplist": {start: "Listing properties in %s", success: "Listed properties in %s", subject: "list properties in %s"},
	"propset":  {start: "Setting property in %s", success: "Set property in %s", subject: "set property in %s"},
	"add":      {start: "Scheduling additions in %s", success: "Scheduled additions in %s", subject: "schedule additions in %s"},
	"delete":   {start: "Scheduling deletions in %s", success: "Scheduled deletions in %s", subject: "schedule deletions in %s"},
	"diff":     {start: "Comparing working copy changes in %s", success: "Compared working copy changes in %s", subject: "compare working copy changes in %s"},
	"console":  {start: "Opening vlt console from %s", success: "Closed vlt console opened from %s", subject: "run vlt console from %s"},
	"rcp":      {start: "Copying repository content remotely from %s", success: "Copied repository content remotely from %s", subject: "copy repository content remotely from %s"},
	"sync":     {start: "Running sync service task from %s", success: "Completed sync service task from %s", subject: "run sync service task from %s"},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not be launched.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// BuildCommandLabel renders the command and its masked arguments, suffixed with the working directory when set.
func (formatter CommandMessageFormatter) BuildCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		maskedArguments := RedactArguments(command.Details.Arguments, command.Details.SensitiveValues)
		commandParts = append(commandParts, strings.Join(maskedArguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	phrases, phrasesFound := formatter.lookupVaultPhrases(command)
	if !phrasesFound {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	location := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(phrases.start, location)
	case messageStageSuccess:
		return fmt.Sprintf(phrases.success, location)
	case messageStageFailure:
		subject := fmt.Sprintf(phrases.subject, location)
		return fmt.Sprintf(subjectFailureTemplateConstant, subject, result.ExitCode, formatter.formatStandardErrorSuffix(command, result.StandardError))
	default:
		subject := fmt.Sprintf(phrases.subject, location)
		return fmt.Sprintf(subjectExecutionFailureTemplateConstant, subject, formatter.describeFailure(command, failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.BuildCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(command, result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(command, failure))
	}
}

func (formatter CommandMessageFormatter) lookupVaultPhrases(command ShellCommand) (subcommandPhrases, bool) {
	if !IsVaultExecutable(command.Name) {
		return subcommandPhrases{}, false
	}
	if len(command.Details.Arguments) == 0 {
		return subcommandPhrases{}, false
	}
	phrases, found := vaultSubcommandPhrases[strings.TrimSpace(command.Details.Arguments[0])]
	return phrases, found
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(command ShellCommand, standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, RedactText(trimmedStandardError, command.Details.SensitiveValues))
}

func (formatter CommandMessageFormatter) describeFailure(command ShellCommand, failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return RedactText(failure.Error(), command.Details.SensitiveValues)
}

// IsVaultExecutable reports whether the executable resolves to the FileVault vlt tool,
// regardless of its directory or platform extension.
func IsVaultExecutable(name CommandName) bool {
	baseName := filepath.Base(strings.TrimSpace(string(name)))
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	return baseName == string(CommandVault)
}

// RedactArguments returns a copy of arguments with every sensitive value masked.
func RedactArguments(arguments []string, sensitiveValues []string) []string {
	redacted := make([]string, len(arguments))
	for argumentIndex, argument := range arguments {
		redacted[argumentIndex] = RedactText(argument, sensitiveValues)
	}
	return redacted
}

// RedactText masks every occurrence of the sensitive values within text.
func RedactText(text string, sensitiveValues []string) string {
	redacted := text
	for _, sensitiveValue := range sensitiveValues {
		if len(sensitiveValue) == 0 {
			continue
		}
		redacted = strings.ReplaceAll(redacted, sensitiveValue, redactedValuePlaceholderConstant)
	}
	return redacted
}
