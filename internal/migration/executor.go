package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/pyport/internal/execshell"
)

const (
	copyErrorTemplateConstant            = "unable to copy %s to %s: %w"
	rewriteErrorTemplateConstant         = "unable to rewrite %s: %w"
	resolvePathErrorTemplateConstant     = "unable to resolve %s: %w"
	treeCopiedLogMessageConstant         = "source tree copied"
	logFieldDestinationDirectoryConstant = "destination_directory"
	logFieldCopiedFileCountConstant      = "copied_files"
	symbolicLinkCycleKindConstant        = "symbolic link cycle"
	specialFileKindConstant              = "special file"
)

// Executor copies a source tree to a destination and rewrites the copy in place.
type Executor struct {
	logger     *zap.Logger
	executor   RewriteExecutor
	fileSystem afero.Fs
}

// NewExecutor constructs an Executor.
func NewExecutor(logger *zap.Logger, executor RewriteExecutor, fileSystem afero.Fs) (*Executor, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger, executor: executor, fileSystem: fileSystem}, nil
}

// Execute merges sourceDirectory into destinationDirectory and runs the rewrite tool in write mode over the destination.
// Existing directories are reused but an existing file is an OverlapError. Nothing is rolled back on failure.
func (migrationExecutor *Executor) Execute(executionContext context.Context, sourceDirectory string, destinationDirectory string) (Result, error) {
	if nestedError := ensureNotNested(sourceDirectory, destinationDirectory); nestedError != nil {
		return Result{}, nestedError
	}

	copiedFiles, copyError := migrationExecutor.copyTree(executionContext, sourceDirectory, destinationDirectory)
	if copyError != nil {
		return Result{Destination: destinationDirectory, CopiedFiles: copiedFiles}, fmt.Errorf(copyErrorTemplateConstant, sourceDirectory, destinationDirectory, copyError)
	}

	migrationExecutor.logger.Debug(
		treeCopiedLogMessageConstant,
		zap.String(logFieldSourceDirectoryConstant, sourceDirectory),
		zap.String(logFieldDestinationDirectoryConstant, destinationDirectory),
		zap.Int(logFieldCopiedFileCountConstant, len(copiedFiles)),
	)

	result := Result{Destination: destinationDirectory, CopiedFiles: copiedFiles}

	_, rewriteError := migrationExecutor.executor.ExecuteRewriteTool(executionContext, execshell.CommandDetails{
		Arguments: []string{rewriteWriteFlagConstant, rewriteNoBackupsFlagConstant, destinationDirectory},
	})
	if rewriteError != nil {
		return result, fmt.Errorf(rewriteErrorTemplateConstant, destinationDirectory, rewriteError)
	}

	return result, nil
}

func (migrationExecutor *Executor) copyTree(executionContext context.Context, sourceDirectory string, destinationDirectory string) ([]string, error) {
	rootInfo, statError := migrationExecutor.fileSystem.Stat(sourceDirectory)
	if statError != nil {
		return nil, fmt.Errorf(resolvePathErrorTemplateConstant, sourceDirectory, statError)
	}

	var copiedFiles []string
	copyError := migrationExecutor.copyDirectory(executionContext, treeEntry{
		sourcePath:      sourceDirectory,
		destinationPath: destinationDirectory,
		relativePath:    "",
		info:            rootInfo,
	}, nil, &copiedFiles)
	return copiedFiles, copyError
}

type treeEntry struct {
	sourcePath      string
	destinationPath string
	relativePath    string
	info            os.FileInfo
}

// copyDirectory copies entries in lexical order. Symbolic links are followed, so linked directories are copied by
// content, while a link back into one of its own ancestors is rejected.
func (migrationExecutor *Executor) copyDirectory(executionContext context.Context, directory treeEntry, ancestors []os.FileInfo, copiedFiles *[]string) error {
	for _, ancestor := range ancestors {
		if os.SameFile(ancestor, directory.info) {
			return UnsupportedEntryError{Path: directory.sourcePath, Kind: symbolicLinkCycleKindConstant}
		}
	}
	if mkdirError := migrationExecutor.fileSystem.MkdirAll(directory.destinationPath, directory.info.Mode().Perm()); mkdirError != nil {
		return mkdirError
	}

	entries, readError := afero.ReadDir(migrationExecutor.fileSystem, directory.sourcePath)
	if readError != nil {
		return readError
	}
	ancestors = append(ancestors, directory.info)

	for _, entryInfo := range entries {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		entry := treeEntry{
			sourcePath:      filepath.Join(directory.sourcePath, entryInfo.Name()),
			destinationPath: filepath.Join(directory.destinationPath, entryInfo.Name()),
			relativePath:    filepath.Join(directory.relativePath, entryInfo.Name()),
		}
		resolvedInfo, resolveError := migrationExecutor.resolveEntry(entry.sourcePath, entryInfo)
		if resolveError != nil {
			return resolveError
		}
		entry.info = resolvedInfo

		if resolvedInfo.IsDir() {
			if copyError := migrationExecutor.copyDirectory(executionContext, entry, ancestors, copiedFiles); copyError != nil {
				return copyError
			}
			continue
		}
		if copyError := migrationExecutor.copyFile(entry.sourcePath, entry.destinationPath, resolvedInfo.Mode().Perm()); copyError != nil {
			return copyError
		}
		*copiedFiles = append(*copiedFiles, entry.relativePath)
	}
	return nil
}

// resolveEntry follows symbolic links so linked files and directories are copied by content.
func (migrationExecutor *Executor) resolveEntry(sourcePath string, fileInfo os.FileInfo) (os.FileInfo, error) {
	if fileInfo.Mode()&os.ModeSymlink != 0 {
		targetInfo, statError := migrationExecutor.fileSystem.Stat(sourcePath)
		if statError != nil {
			return nil, fmt.Errorf(resolvePathErrorTemplateConstant, sourcePath, statError)
		}
		fileInfo = targetInfo
	}
	if !fileInfo.IsDir() && !fileInfo.Mode().IsRegular() {
		return nil, UnsupportedEntryError{Path: sourcePath, Kind: specialFileKindConstant}
	}
	return fileInfo, nil
}

func (migrationExecutor *Executor) copyFile(sourcePath string, destinationPath string, permissions os.FileMode) error {
	exists, existsError := afero.Exists(migrationExecutor.fileSystem, destinationPath)
	if existsError != nil {
		return existsError
	}
	if exists {
		return OverlapError{Path: destinationPath}
	}

	sourceFile, openError := migrationExecutor.fileSystem.Open(sourcePath)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	destinationFile, createError := migrationExecutor.fileSystem.OpenFile(destinationPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, permissions)
	if createError != nil {
		if os.IsExist(createError) {
			return OverlapError{Path: destinationPath}
		}
		return createError
	}

	_, copyError := io.Copy(destinationFile, sourceFile)
	closeError := destinationFile.Close()
	if copyError != nil {
		return copyError
	}
	return closeError
}

func ensureNotNested(sourceDirectory string, destinationDirectory string) error {
	absoluteSource, sourceError := filepath.Abs(sourceDirectory)
	if sourceError != nil {
		return fmt.Errorf(resolvePathErrorTemplateConstant, sourceDirectory, sourceError)
	}
	absoluteDestination, destinationError := filepath.Abs(destinationDirectory)
	if destinationError != nil {
		return fmt.Errorf(resolvePathErrorTemplateConstant, destinationDirectory, destinationError)
	}

	relativePath, relativeError := filepath.Rel(absoluteSource, absoluteDestination)
	if relativeError != nil {
		return nil
	}
	if relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator))) {
		return ErrDestinationInsideSource
	}
	return nil
}
