package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading "~" in source and destination arguments with the user's home directory.
type HomeExpander struct {
	lookupHomeDirectory func() (string, error)
}

// NewHomeExpander constructs a HomeExpander that asks the operating system for the home directory once.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider. The provider is consulted at most once.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHomeDirectory: sync.OnceValues(provider)}
}

// Expand rewrites "~" and "~/..." paths. Paths such as "~user/..." and paths without a leading tilde are returned as is,
// as are all paths when the home directory cannot be determined.
func (expander *HomeExpander) Expand(candidatePath string) string {
	remainder, hasShortcut := strings.CutPrefix(candidatePath, homeShortcutConstant)
	if expander == nil || !hasShortcut {
		return candidatePath
	}
	if len(remainder) > 0 && !isSeparator(remainder[0]) {
		return candidatePath
	}

	homeDirectory, lookupError := expander.lookupHomeDirectory()
	if lookupError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	if len(remainder) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, remainder[1:])
}

func isSeparator(character byte) bool {
	return character == '/' || os.IsPathSeparator(character)
}
