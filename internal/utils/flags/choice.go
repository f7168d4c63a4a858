package flags

import "strings"

const (
	usagePlaceholderQuote   = "`"
	choiceListOpening       = "<"
	choiceListClosing       = ">"
	choiceListSeparator     = "|"
	usageDescriptionPadding = " "
)

// FormatChoiceUsage renders "`<a|B|c>` description" for a pflag usage string. The
// back-quoted part becomes the value placeholder in help output, the default
// choice is upper-cased, and blank or case-insensitive duplicate choices are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	var usageBuilder strings.Builder
	usageBuilder.WriteString(usagePlaceholderQuote)
	usageBuilder.WriteString(choiceListOpening)
	usageBuilder.WriteString(strings.Join(displayChoices(defaultChoice, choices), choiceListSeparator))
	usageBuilder.WriteString(choiceListClosing)
	usageBuilder.WriteString(usagePlaceholderQuote)
	if len(strings.TrimSpace(description)) > 0 {
		usageBuilder.WriteString(usageDescriptionPadding)
		usageBuilder.WriteString(description)
	}
	return usageBuilder.String()
}

func displayChoices(defaultChoice string, choices []string) []string {
	defaultKey := strings.ToLower(strings.TrimSpace(defaultChoice))
	seenKeys := make(map[string]bool, len(choices))
	displayed := make([]string, 0, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		choiceKey := strings.ToLower(trimmedChoice)
		if len(choiceKey) == 0 || seenKeys[choiceKey] {
			continue
		}
		seenKeys[choiceKey] = true

		if choiceKey == defaultKey {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayed = append(displayed, trimmedChoice)
	}

	return displayed
}
