package interpreter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	versionComponentSeparatorConstant   = "."
	invalidVersionErrorTemplateConstant = "invalid interpreter version %q: %w"
)

var interpreterVersionPattern = regexp.MustCompile(`Python (\d+\.\d+\.\d+)`)

// Version is an interpreter version as reported by the interpreter, such as 3.8.10.
type Version struct {
	raw      string
	semantic *semver.Version
}

// ParseVersion validates a dotted version string.
func ParseVersion(raw string) (Version, error) {
	trimmedRaw := strings.TrimSpace(raw)
	semanticVersion, parseError := semver.StrictNewVersion(trimmedRaw)
	if parseError != nil {
		return Version{}, fmt.Errorf(invalidVersionErrorTemplateConstant, trimmedRaw, parseError)
	}
	return Version{raw: trimmedRaw, semantic: semanticVersion}, nil
}

// ExtractVersion finds the first "Python X.Y.Z" occurrence in interpreter output.
func ExtractVersion(output string) (Version, error) {
	match := interpreterVersionPattern.FindStringSubmatch(output)
	if len(match) < 2 {
		return Version{}, execshell.UnparseableOutputError{Command: execshell.CommandPython, Output: output}
	}
	return ParseVersion(match[1])
}

// String returns the version exactly as the interpreter reported it.
func (version Version) String() string {
	return version.raw
}

// IsZero reports whether the version was never populated.
func (version Version) IsZero() bool {
	return len(version.raw) == 0
}

// Major returns the major component.
func (version Version) Major() uint64 {
	if version.semantic == nil {
		return 0
	}
	return version.semantic.Major()
}

// Minor returns the minor component.
func (version Version) Minor() uint64 {
	if version.semantic == nil {
		return 0
	}
	return version.semantic.Minor()
}

// MatchesTarget reports whether the version falls under the target release line.
// Matching is by dotted components: "3.9" matches 3.9 and 3.9.18 but not 3.10.
func (version Version) MatchesTarget(target string) bool {
	trimmedTarget := strings.TrimSpace(target)
	if len(trimmedTarget) == 0 || version.IsZero() {
		return false
	}
	if version.raw == trimmedTarget {
		return true
	}
	return strings.HasPrefix(version.raw, trimmedTarget+versionComponentSeparatorConstant)
}
