package reports

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/pyport/internal/dependencies"
)

const (
	proposedChangeTemplateConstant       = "Changes for %s:\n%s\n"
	concernLineTemplateConstant          = "%s\n"
	reportFilePermissionsConstant        = 0o644
	reportDirectoryPermissionsConstant   = 0o755
	fileSystemNotConfiguredMessage       = "report filesystem not configured"
	reportPathRequiredMessage            = "report path must not be empty"
	reportCreateErrorTemplateConstant    = "unable to create report %s: %w"
	reportWriteErrorTemplateConstant     = "unable to write report %s: %w"
	reportDirectoryErrorTemplateConstant = "unable to create report directory %s: %w"
)

var (
	// ErrFileSystemNotConfigured indicates that the writer was built without a filesystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessage)
	// ErrReportPathRequired indicates a blank report path.
	ErrReportPathRequired = errors.New(reportPathRequiredMessage)
)

// Writer persists reports to a filesystem, truncating any previous report at the same path.
type Writer struct {
	fileSystem afero.Fs
}

// NewWriter constructs a Writer over the provided filesystem.
func NewWriter(fileSystem afero.Fs) (*Writer, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Writer{fileSystem: fileSystem}, nil
}

// WriteCompatibilityConcerns writes one "name==version" line per incompatible dependency.
func (writer *Writer) WriteCompatibilityConcerns(reportPath string, incompatibleDependencies []dependencies.Dependency) error {
	return writer.write(reportPath, func(bufferedWriter *bufio.Writer) error {
		for _, dependency := range incompatibleDependencies {
			if _, writeError := fmt.Fprintf(bufferedWriter, concernLineTemplateConstant, dependency); writeError != nil {
				return writeError
			}
		}
		return nil
	})
}

// WriteProposedChanges writes a "Changes for <path>:" section per file followed by its diff.
func (writer *Writer) WriteProposedChanges(reportPath string, changeSet ChangeSet) error {
	return writer.write(reportPath, func(bufferedWriter *bufio.Writer) error {
		for _, change := range changeSet {
			if _, writeError := fmt.Fprintf(bufferedWriter, proposedChangeTemplateConstant, change.FilePath, change.Diff); writeError != nil {
				return writeError
			}
		}
		return nil
	})
}

func (writer *Writer) write(reportPath string, render func(bufferedWriter *bufio.Writer) error) error {
	trimmedPath := strings.TrimSpace(reportPath)
	if len(trimmedPath) == 0 {
		return ErrReportPathRequired
	}

	reportDirectory := filepath.Dir(trimmedPath)
	if reportDirectory != "." {
		if directoryError := writer.fileSystem.MkdirAll(reportDirectory, reportDirectoryPermissionsConstant); directoryError != nil {
			return fmt.Errorf(reportDirectoryErrorTemplateConstant, reportDirectory, directoryError)
		}
	}

	reportFile, createError := writer.fileSystem.OpenFile(trimmedPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(reportCreateErrorTemplateConstant, trimmedPath, createError)
	}

	bufferedWriter := bufio.NewWriter(reportFile)
	renderError := render(bufferedWriter)
	if renderError == nil {
		renderError = bufferedWriter.Flush()
	}
	closeError := reportFile.Close()

	if renderError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, trimmedPath, renderError)
	}
	if closeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, trimmedPath, closeError)
	}
	return nil
}
