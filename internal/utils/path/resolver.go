package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant      = "~"
	homeShortcutSlashConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup resolves a single environment variable.
type EnvironmentLookup func(name string) (string, bool)

// Resolver expands the home shortcut and environment references in configured paths,
// such as the vlt executable location or the working copy directory.
type Resolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewResolver constructs a Resolver backed by the operating system.
func NewResolver() *Resolver {
	return NewResolverWithProviders(os.UserHomeDir, os.LookupEnv)
}

// NewResolverWithProviders constructs a Resolver with custom lookups. Nil providers fall back to the operating system.
func NewResolverWithProviders(homeDirectoryProvider HomeDirectoryProvider, environmentLookup EnvironmentLookup) *Resolver {
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &Resolver{homeDirectoryProvider: homeDirectoryProvider, environmentLookup: environmentLookup}
}

// Resolve expands $NAME and ${NAME} references, then a leading tilde. Undefined
// variables expand to the empty string. Blank input stays blank.
func (resolver *Resolver) Resolve(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if resolver == nil || len(trimmedPath) == 0 {
		return trimmedPath
	}

	expandedPath := os.Expand(trimmedPath, func(name string) string {
		value, _ := resolver.environmentLookup(name)
		return value
	})

	return resolver.expandHome(expandedPath)
}

func (resolver *Resolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == homeShortcutConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, homeShortcutSlashConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, homeShortcutSlashConstant))
	case strings.HasPrefix(candidatePath, homeShortcutConstant+string(os.PathSeparator)):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, homeShortcutConstant+string(os.PathSeparator)))
	default:
		return candidatePath
	}
}

func (resolver *Resolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
