package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/pyport/internal/execshell"
	"github.com/temirov/pyport/internal/reports"
)

const (
	previewFailedLogMessageConstant    = "Error during dry run"
	previewWalkErrorTemplateConstant   = "unable to walk %s: %w"
	previewCompletedLogMessageConstant = "dry run walk completed"
	logFieldFilePathConstant           = "file_path"
	logFieldOutputConstant             = "output"
	logFieldSourceDirectoryConstant    = "source_directory"
	logFieldPreviewedFileCountConstant = "previewed_files"
)

// Previewer collects the changes the rewrite tool proposes for each source file without modifying anything.
type Previewer struct {
	logger          *zap.Logger
	executor        RewriteExecutor
	fileSystem      afero.Fs
	sourceExtension string
}

// NewPreviewer constructs a Previewer. A blank extension selects ".py".
func NewPreviewer(logger *zap.Logger, executor RewriteExecutor, fileSystem afero.Fs, sourceExtension string) (*Previewer, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedExtension := strings.TrimSpace(sourceExtension)
	if len(trimmedExtension) == 0 {
		trimmedExtension = defaultSourceExtensionConstant
	}

	return &Previewer{
		logger:          logger,
		executor:        executor,
		fileSystem:      fileSystem,
		sourceExtension: trimmedExtension,
	}, nil
}

// Preview runs the rewrite tool in no-write mode over every matching file in lexical walk order.
// A file whose preview fails is logged and left out of the change set. Paths in the change set
// are relative to sourceDirectory.
func (previewer *Previewer) Preview(executionContext context.Context, sourceDirectory string) (reports.ChangeSet, error) {
	changeSet := reports.ChangeSet{}

	walkError := afero.Walk(previewer.fileSystem, sourceDirectory, func(filePath string, fileInfo os.FileInfo, visitError error) error {
		if visitError != nil {
			return visitError
		}
		if fileInfo.IsDir() || !strings.HasSuffix(fileInfo.Name(), previewer.sourceExtension) {
			return nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		executionResult, executionError := previewer.executor.ExecuteRewriteTool(executionContext, execshell.CommandDetails{
			Arguments: []string{rewriteNoWriteFlagConstant, filePath},
		})
		if executionError != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}
			previewer.logger.Error(
				previewFailedLogMessageConstant,
				zap.String(logFieldFilePathConstant, filePath),
				zap.String(logFieldOutputConstant, describeRewriteFailure(executionError)),
			)
			return nil
		}

		changeSet = append(changeSet, reports.ProposedChange{
			FilePath: relativeTo(sourceDirectory, filePath),
			Diff:     executionResult.StandardOutput,
		})
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(previewWalkErrorTemplateConstant, sourceDirectory, walkError)
	}

	previewer.logger.Debug(
		previewCompletedLogMessageConstant,
		zap.String(logFieldSourceDirectoryConstant, sourceDirectory),
		zap.Int(logFieldPreviewedFileCountConstant, len(changeSet)),
	)

	return changeSet, nil
}

func describeRewriteFailure(executionError error) string {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return commandFailure.Output()
	}
	return executionError.Error()
}

func relativeTo(baseDirectory string, targetPath string) string {
	relativePath, relativeError := filepath.Rel(baseDirectory, targetPath)
	if relativeError != nil {
		return targetPath
	}
	return relativePath
}
