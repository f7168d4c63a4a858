package vault

import (
	"strings"

	flagutils "github.com/temirov/filevault/internal/utils/flags"
)

const (
	toggleUnsetLabelConstant      = "unset"
	toggleEnabledLabelConstant    = "true"
	toggleDisabledLabelConstant   = "false"
	pathListJoinSeparatorConstant = " "
)

// Toggle is a boolean option that remembers whether it was set at all, so an
// explicit false can override an enabled default.
type Toggle uint8

// Toggle states.
const (
	ToggleUnset Toggle = iota
	ToggleEnabled
	ToggleDisabled
)

// ToggleOf converts a plain boolean into an explicitly set Toggle.
func ToggleOf(value bool) Toggle {
	if value {
		return ToggleEnabled
	}
	return ToggleDisabled
}

// ParseToggle accepts the same literals as the --flag yes|no command-line form.
func ParseToggle(rawValue string) (Toggle, error) {
	parsedValue, parseError := flagutils.ParseToggleLiteral(rawValue)
	if parseError != nil {
		return ToggleUnset, parseError
	}
	return ToggleOf(parsedValue), nil
}

// IsSet reports whether the toggle carries an explicit value.
func (toggle Toggle) IsSet() bool {
	return toggle == ToggleEnabled || toggle == ToggleDisabled
}

// Enabled reports whether the toggle is explicitly on.
func (toggle Toggle) Enabled() bool {
	return toggle == ToggleEnabled
}

// String renders the toggle state.
func (toggle Toggle) String() string {
	switch toggle {
	case ToggleEnabled:
		return toggleEnabledLabelConstant
	case ToggleDisabled:
		return toggleDisabledLabelConstant
	default:
		return toggleUnsetLabelConstant
	}
}

// PathList holds an option that accepts a single value or an ordered sequence.
type PathList []string

// SinglePath wraps one value as a PathList.
func SinglePath(value string) PathList {
	return PathList{value}
}

// IsSet reports whether the list holds at least one value.
func (pathList PathList) IsSet() bool {
	return len(pathList) > 0
}

// Token flattens the list into a single space-joined value.
func (pathList PathList) Token() string {
	return strings.Join(pathList, pathListJoinSeparatorConstant)
}

// Clone returns an independent copy of the list.
func (pathList PathList) Clone() PathList {
	if pathList == nil {
		return nil
	}
	return append(PathList{}, pathList...)
}

// Options is the set of vlt options accepted by every subcommand. String and
// numeric options are unset when empty or zero; boolean options use Toggle.
type Options struct {
	Verbose        Toggle   `mapstructure:"verbose" yaml:"verbose,omitempty"`
	Quiet          Toggle   `mapstructure:"quiet" yaml:"quiet,omitempty"`
	Version        Toggle   `mapstructure:"version" yaml:"version,omitempty"`
	ExtendedJCRLog string   `mapstructure:"xjcrlog" yaml:"xjcrlog,omitempty"`
	ExtendedDavex  string   `mapstructure:"xdavex" yaml:"xdavex,omitempty"`
	Config         string   `mapstructure:"config" yaml:"config,omitempty"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level,omitempty"`
	Credentials    string   `mapstructure:"credentials" yaml:"credentials,omitempty"`
	Username       string   `mapstructure:"username" yaml:"username,omitempty"`
	Password       string   `mapstructure:"password" yaml:"password,omitempty"`
	Filter         string   `mapstructure:"filter" yaml:"filter,omitempty"`
	LinkFormat     string   `mapstructure:"link_format" yaml:"link_format,omitempty"`
	Settings       string   `mapstructure:"settings" yaml:"settings,omitempty"`
	BatchSize      int      `mapstructure:"batch_size" yaml:"batch_size,omitempty"`
	Throttle       int      `mapstructure:"throttle" yaml:"throttle,omitempty"`
	URI            string   `mapstructure:"uri" yaml:"uri,omitempty"`
	Exclude        PathList `mapstructure:"exclude" yaml:"exclude,omitempty"`
	Recursive      Toggle   `mapstructure:"recursive" yaml:"recursive,omitempty"`
	NonRecursive   Toggle   `mapstructure:"non_recursive" yaml:"non_recursive,omitempty"`
	Prune          Toggle   `mapstructure:"prune" yaml:"prune,omitempty"`
	Sync           Toggle   `mapstructure:"sync" yaml:"sync,omitempty"`
	ShowUpdate     Toggle   `mapstructure:"show_update" yaml:"show_update,omitempty"`
	Force          Toggle   `mapstructure:"force" yaml:"force,omitempty"`
	Newer          Toggle   `mapstructure:"newer" yaml:"newer,omitempty"`
	Update         Toggle   `mapstructure:"update" yaml:"update,omitempty"`
	Command        string   `mapstructure:"command" yaml:"command,omitempty"`
	PropertyName   string   `mapstructure:"propname" yaml:"propname,omitempty"`
	PropertyValue  string   `mapstructure:"propval" yaml:"propval,omitempty"`
	Source         string   `mapstructure:"src" yaml:"src,omitempty"`
	Destination    string   `mapstructure:"dst" yaml:"dst,omitempty"`
	JCRPath        string   `mapstructure:"jcr_path" yaml:"jcr_path,omitempty"`
	LocalPath      PathList `mapstructure:"local_path" yaml:"local_path,omitempty"`
	File           PathList `mapstructure:"file" yaml:"file,omitempty"`
	Type           string   `mapstructure:"type" yaml:"type,omitempty"`
}

// Clone returns a copy of the options that shares no slices with the receiver.
func (options Options) Clone() Options {
	cloned := options
	cloned.Exclude = options.Exclude.Clone()
	cloned.LocalPath = options.LocalPath.Clone()
	cloned.File = options.File.Clone()
	return cloned
}

// MergeOptions layers overrides on top of defaults. Every option set in
// overrides wins; options left unset keep their default. Neither input is modified.
func MergeOptions(defaults Options, overrides Options) Options {
	merged := defaults.Clone()

	merged.Verbose = mergeToggle(defaults.Verbose, overrides.Verbose)
	merged.Quiet = mergeToggle(defaults.Quiet, overrides.Quiet)
	merged.Version = mergeToggle(defaults.Version, overrides.Version)
	merged.ExtendedJCRLog = mergeString(defaults.ExtendedJCRLog, overrides.ExtendedJCRLog)
	merged.ExtendedDavex = mergeString(defaults.ExtendedDavex, overrides.ExtendedDavex)
	merged.Config = mergeString(defaults.Config, overrides.Config)
	merged.LogLevel = mergeString(defaults.LogLevel, overrides.LogLevel)
	merged.Credentials = mergeString(defaults.Credentials, overrides.Credentials)
	merged.Username = mergeString(defaults.Username, overrides.Username)
	merged.Password = mergeString(defaults.Password, overrides.Password)
	merged.Filter = mergeString(defaults.Filter, overrides.Filter)
	merged.LinkFormat = mergeString(defaults.LinkFormat, overrides.LinkFormat)
	merged.Settings = mergeString(defaults.Settings, overrides.Settings)
	merged.BatchSize = mergeInt(defaults.BatchSize, overrides.BatchSize)
	merged.Throttle = mergeInt(defaults.Throttle, overrides.Throttle)
	merged.URI = mergeString(defaults.URI, overrides.URI)
	merged.Exclude = mergePathList(merged.Exclude, overrides.Exclude)
	merged.Recursive = mergeToggle(defaults.Recursive, overrides.Recursive)
	merged.NonRecursive = mergeToggle(defaults.NonRecursive, overrides.NonRecursive)
	merged.Prune = mergeToggle(defaults.Prune, overrides.Prune)
	merged.Sync = mergeToggle(defaults.Sync, overrides.Sync)
	merged.ShowUpdate = mergeToggle(defaults.ShowUpdate, overrides.ShowUpdate)
	merged.Force = mergeToggle(defaults.Force, overrides.Force)
	merged.Newer = mergeToggle(defaults.Newer, overrides.Newer)
	merged.Update = mergeToggle(defaults.Update, overrides.Update)
	merged.Command = mergeString(defaults.Command, overrides.Command)
	merged.PropertyName = mergeString(defaults.PropertyName, overrides.PropertyName)
	merged.PropertyValue = mergeString(defaults.PropertyValue, overrides.PropertyValue)
	merged.Source = mergeString(defaults.Source, overrides.Source)
	merged.Destination = mergeString(defaults.Destination, overrides.Destination)
	merged.JCRPath = mergeString(defaults.JCRPath, overrides.JCRPath)
	merged.LocalPath = mergePathList(merged.LocalPath, overrides.LocalPath)
	merged.File = mergePathList(merged.File, overrides.File)
	merged.Type = mergeString(defaults.Type, overrides.Type)

	return merged
}

func mergeToggle(defaultValue Toggle, overrideValue Toggle) Toggle {
	if overrideValue.IsSet() {
		return overrideValue
	}
	return defaultValue
}

func mergeString(defaultValue string, overrideValue string) string {
	if len(overrideValue) > 0 {
		return overrideValue
	}
	return defaultValue
}

func mergeInt(defaultValue int, overrideValue int) int {
	if overrideValue != 0 {
		return overrideValue
	}
	return defaultValue
}

func mergePathList(defaultValue PathList, overrideValue PathList) PathList {
	if overrideValue.IsSet() {
		return overrideValue.Clone()
	}
	return defaultValue
}
