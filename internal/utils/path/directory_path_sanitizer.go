package pathutils

import (
	"path/filepath"
	"strings"
)

// DirectoryPathSanitizer normalizes directory arguments supplied through flags or configuration.
type DirectoryPathSanitizer struct {
	homeExpander *HomeExpander
}

// NewDirectoryPathSanitizer constructs a DirectoryPathSanitizer backed by the operating system home lookup.
func NewDirectoryPathSanitizer() *DirectoryPathSanitizer {
	return NewDirectoryPathSanitizerWithExpander(nil)
}

// NewDirectoryPathSanitizerWithExpander constructs a DirectoryPathSanitizer using the provided expander.
func NewDirectoryPathSanitizerWithExpander(homeExpander *HomeExpander) *DirectoryPathSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &DirectoryPathSanitizer{homeExpander: homeExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and cleans the result.
// Blank input yields an empty string.
func (sanitizer *DirectoryPathSanitizer) Sanitize(candidatePath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return ""
	}

	expander := NewHomeExpander()
	if sanitizer != nil && sanitizer.homeExpander != nil {
		expander = sanitizer.homeExpander
	}

	return filepath.Clean(expander.Expand(trimmedCandidate))
}
