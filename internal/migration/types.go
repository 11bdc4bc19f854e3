package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	defaultSourceExtensionConstant        = ".py"
	rewriteNoWriteFlagConstant            = "-n"
	rewriteWriteFlagConstant              = "--write"
	rewriteNoBackupsFlagConstant          = "--nobackups"
	executorNotConfiguredMessage          = "rewrite tool executor not configured"
	fileSystemNotConfiguredMessage        = "migration filesystem not configured"
	destinationInsideSourceMessage        = "destination directory must not be inside the source directory"
	overlapErrorTemplateConstant          = "destination already contains %s"
	unsupportedEntryErrorTemplateConstant = "unsupported source entry %s (%s)"
)

var (
	// ErrExecutorNotConfigured indicates that no rewrite tool executor was supplied.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)
	// ErrFileSystemNotConfigured indicates that no filesystem was supplied.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessage)
	// ErrDestinationInsideSource indicates a destination nested in the tree being copied.
	ErrDestinationInsideSource = errors.New(destinationInsideSourceMessage)
)

// RewriteExecutor runs the configured source rewrite tool.
type RewriteExecutor interface {
	ExecuteRewriteTool(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// OverlapError reports a destination file that would be overwritten by the copy.
type OverlapError struct {
	Path string
}

// Error describes the overlapping path.
func (overlapError OverlapError) Error() string {
	return fmt.Sprintf(overlapErrorTemplateConstant, overlapError.Path)
}

// UnsupportedEntryError reports a source entry that is neither a directory nor a file.
type UnsupportedEntryError struct {
	Path string
	Kind string
}

// Error describes the unsupported entry.
func (entryError UnsupportedEntryError) Error() string {
	return fmt.Sprintf(unsupportedEntryErrorTemplateConstant, entryError.Path, entryError.Kind)
}

// Result summarizes a completed migration.
type Result struct {
	Destination string
	CopiedFiles []string
}
