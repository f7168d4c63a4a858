package vault

import (
	"fmt"
	"strings"
)

const (
	unknownSubcommandErrorTemplateConstant = "unknown vlt subcommand %q"
)

// Subcommand identifies one vlt operation.
type Subcommand string

// Supported vlt subcommands.
const (
	SubcommandExport   Subcommand = "export"
	SubcommandImport   Subcommand = "import"
	SubcommandCheckout Subcommand = "checkout"
	SubcommandAnalyze  Subcommand = "analyze"
	SubcommandStatus   Subcommand = "status"
	SubcommandUpdate   Subcommand = "update"
	SubcommandInfo     Subcommand = "info"
	SubcommandCommit   Subcommand = "commit"
	SubcommandRevert   Subcommand = "revert"
	SubcommandResolved Subcommand = "resolved"
	SubcommandPropGet  Subcommand = "propget"
	SubcommandPropList Subcommand = "proplist"
	SubcommandPropSet  Subcommand = "propset"
	SubcommandAdd      Subcommand = "add"
	SubcommandDelete   Subcommand = "delete"
	SubcommandDiff     Subcommand = "diff"
	SubcommandConsole  Subcommand = "console"
	SubcommandRcp      Subcommand = "rcp"
	SubcommandSync     Subcommand = "sync"
)

var supportedSubcommands = []Subcommand{
	SubcommandExport,
	SubcommandImport,
	SubcommandCheckout,
	SubcommandAnalyze,
	SubcommandStatus,
	SubcommandUpdate,
	SubcommandInfo,
	SubcommandCommit,
	SubcommandRevert,
	SubcommandResolved,
	SubcommandPropGet,
	SubcommandPropList,
	SubcommandPropSet,
	SubcommandAdd,
	SubcommandDelete,
	SubcommandDiff,
	SubcommandConsole,
	SubcommandRcp,
	SubcommandSync,
}

// UnknownSubcommandError reports a name outside the supported subcommand set.
type UnknownSubcommandError struct {
	Name string
}

// Error describes the unknown subcommand.
func (unknownError UnknownSubcommandError) Error() string {
	return fmt.Sprintf(unknownSubcommandErrorTemplateConstant, unknownError.Name)
}

// Subcommands returns every supported subcommand in a stable order.
func Subcommands() []Subcommand {
	return append([]Subcommand{}, supportedSubcommands...)
}

// ParseSubcommand resolves a case-insensitive subcommand name.
func ParseSubcommand(name string) (Subcommand, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))
	for _, candidate := range supportedSubcommands {
		if string(candidate) == normalizedName {
			return candidate, nil
		}
	}
	return "", UnknownSubcommandError{Name: name}
}

// IsValid reports whether the subcommand belongs to the supported set.
func (subcommand Subcommand) IsValid() bool {
	for _, candidate := range supportedSubcommands {
		if candidate == subcommand {
			return true
		}
	}
	return false
}

// String returns the vlt spelling of the subcommand.
func (subcommand Subcommand) String() string {
	return string(subcommand)
}
