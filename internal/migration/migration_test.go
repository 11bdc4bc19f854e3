package migration_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/pyport/internal/execshell"
	"github.com/temirov/pyport/internal/migration"
	"github.com/temirov/pyport/internal/reports"
)

const (
	testSourceDirectoryConstant      = "/workspace/legacy"
	testDestinationDirectoryConstant = "/workspace/migrated"
)

type recordingRewriteExecutor struct {
	outputs         map[string]string
	failures        map[string]error
	writeFailure    error
	receivedDetails []execshell.CommandDetails
}

func (executor *recordingRewriteExecutor) ExecuteRewriteTool(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.receivedDetails = append(executor.receivedDetails, details)
	target := details.Arguments[len(details.Arguments)-1]
	if details.Arguments[0] == "--write" {
		return execshell.ExecutionResult{}, executor.writeFailure
	}
	if failure, exists := executor.failures[target]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[target]}, nil
}

func populateSourceTree(testInstance *testing.T, fileSystem afero.Fs, files map[string]string) {
	testInstance.Helper()
	require.NoError(testInstance, fileSystem.MkdirAll(testSourceDirectoryConstant, 0o755))
	for relativePath, content := range files {
		absolutePath := filepath.Join(testSourceDirectoryConstant, relativePath)
		require.NoError(testInstance, fileSystem.MkdirAll(filepath.Dir(absolutePath), 0o755))
		require.NoError(testInstance, afero.WriteFile(fileSystem, absolutePath, []byte(content), 0o644))
	}
}

func TestPreviewerRunsOncePerSourceFile(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{
		"a.py":            "print 'a'\n",
		"pkg/b.py":        "print 'b'\n",
		"pkg/notes.txt":   "not python\n",
		"pkg/c.pyc":       "bytecode",
		"z/deep/d.py":     "print 'd'\n",
		"setup.cfg":       "[metadata]\n",
		"pkg/__init__.py": "",
	})

	executor := &recordingRewriteExecutor{outputs: map[string]string{
		filepath.Join(testSourceDirectoryConstant, "a.py"): "-print 'a'\n+print('a')\n",
	}}
	previewer, creationError := migration.NewPreviewer(zap.NewNop(), executor, fileSystem, "")
	require.NoError(testInstance, creationError)

	changeSet, previewError := previewer.Preview(context.Background(), testSourceDirectoryConstant)
	require.NoError(testInstance, previewError)

	require.Equal(testInstance, []string{"a.py", "pkg/__init__.py", "pkg/b.py", "z/deep/d.py"}, changeSet.FilePaths())
	require.Equal(testInstance, "-print 'a'\n+print('a')\n", changeSet[0].Diff)

	require.Len(testInstance, executor.receivedDetails, 4)
	for _, details := range executor.receivedDetails {
		require.Equal(testInstance, "-n", details.Arguments[0])
		require.True(testInstance, filepath.IsAbs(details.Arguments[1]))
	}
}

func TestPreviewerSkipsFailedFiles(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{
		"a.py": "print 'a'\n",
		"b.py": "def broken(:\n",
	})

	brokenPath := filepath.Join(testSourceDirectoryConstant, "b.py")
	executor := &recordingRewriteExecutor{failures: map[string]error{
		brokenPath: execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandRewriteTool},
			Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "ParseError: bad input\n"},
		},
	}}

	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	previewer, creationError := migration.NewPreviewer(zap.New(observerCore), executor, fileSystem, ".py")
	require.NoError(testInstance, creationError)

	changeSet, previewError := previewer.Preview(context.Background(), testSourceDirectoryConstant)
	require.NoError(testInstance, previewError)
	require.Equal(testInstance, reports.ChangeSet{{FilePath: "a.py", Diff: ""}}, changeSet)

	errorLogs := observedLogs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(testInstance, errorLogs, 1)
	require.Equal(testInstance, "Error during dry run", errorLogs[0].Message)
	require.Equal(testInstance, brokenPath, errorLogs[0].ContextMap()["file_path"])
	require.Equal(testInstance, "ParseError: bad input", errorLogs[0].ContextMap()["output"])
}

func TestPreviewerHonorsConfiguredExtension(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{
		"a.py":  "print 'a'\n",
		"b.pyw": "print 'b'\n",
	})

	executor := &recordingRewriteExecutor{}
	previewer, creationError := migration.NewPreviewer(nil, executor, fileSystem, ".pyw")
	require.NoError(testInstance, creationError)

	changeSet, previewError := previewer.Preview(context.Background(), testSourceDirectoryConstant)
	require.NoError(testInstance, previewError)
	require.Equal(testInstance, []string{"b.pyw"}, changeSet.FilePaths())
}

func TestPreviewerStopsWhenContextCancelled(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{"a.py": ""})

	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	executor := &recordingRewriteExecutor{}
	previewer, creationError := migration.NewPreviewer(nil, executor, fileSystem, "")
	require.NoError(testInstance, creationError)

	_, previewError := previewer.Preview(executionContext, testSourceDirectoryConstant)
	require.ErrorIs(testInstance, previewError, context.Canceled)
	require.Empty(testInstance, executor.receivedDetails)
}

func TestPreviewerRejectsMissingSource(testInstance *testing.T) {
	previewer, creationError := migration.NewPreviewer(nil, &recordingRewriteExecutor{}, afero.NewMemMapFs(), "")
	require.NoError(testInstance, creationError)

	_, previewError := previewer.Preview(context.Background(), "/does/not/exist")
	require.Error(testInstance, previewError)
}

func TestNewPreviewerValidation(testInstance *testing.T) {
	_, executorError := migration.NewPreviewer(nil, nil, afero.NewMemMapFs(), "")
	require.ErrorIs(testInstance, executorError, migration.ErrExecutorNotConfigured)

	_, fileSystemError := migration.NewPreviewer(nil, &recordingRewriteExecutor{}, nil, "")
	require.ErrorIs(testInstance, fileSystemError, migration.ErrFileSystemNotConfigured)
}

func TestExecutorCopiesTreeThenRewritesDestination(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	sourceFiles := map[string]string{
		"a.py":          "print 'a'\n",
		"pkg/b.py":      "print 'b'\n",
		"pkg/data.json": "{}",
	}
	populateSourceTree(testInstance, fileSystem, sourceFiles)
	require.NoError(testInstance, fileSystem.MkdirAll(filepath.Join(testSourceDirectoryConstant, "empty"), 0o755))
	require.NoError(testInstance, fileSystem.MkdirAll(testDestinationDirectoryConstant, 0o755))

	executor := &recordingRewriteExecutor{}
	migrationExecutor, creationError := migration.NewExecutor(zap.NewNop(), executor, fileSystem)
	require.NoError(testInstance, creationError)

	result, executeError := migrationExecutor.Execute(context.Background(), testSourceDirectoryConstant, testDestinationDirectoryConstant)
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, testDestinationDirectoryConstant, result.Destination)
	require.Equal(testInstance, []string{"a.py", "pkg/b.py", "pkg/data.json"}, result.CopiedFiles)

	for relativePath, expectedContent := range sourceFiles {
		copiedContent, readError := afero.ReadFile(fileSystem, filepath.Join(testDestinationDirectoryConstant, relativePath))
		require.NoError(testInstance, readError)
		require.Equal(testInstance, expectedContent, string(copiedContent))
	}

	emptyDirectoryExists, existsError := afero.DirExists(fileSystem, filepath.Join(testDestinationDirectoryConstant, "empty"))
	require.NoError(testInstance, existsError)
	require.True(testInstance, emptyDirectoryExists)

	require.Len(testInstance, executor.receivedDetails, 1)
	require.Equal(testInstance, []string{"--write", "--nobackups", testDestinationDirectoryConstant}, executor.receivedDetails[0].Arguments)
}

func TestExecutorRejectsOverlappingFiles(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{"a.py": "print 'a'\n"})
	require.NoError(testInstance, fileSystem.MkdirAll(testDestinationDirectoryConstant, 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, filepath.Join(testDestinationDirectoryConstant, "a.py"), []byte("existing"), 0o644))

	executor := &recordingRewriteExecutor{}
	migrationExecutor, creationError := migration.NewExecutor(nil, executor, fileSystem)
	require.NoError(testInstance, creationError)

	_, executeError := migrationExecutor.Execute(context.Background(), testSourceDirectoryConstant, testDestinationDirectoryConstant)
	var overlapError migration.OverlapError
	require.ErrorAs(testInstance, executeError, &overlapError)
	require.Equal(testInstance, filepath.Join(testDestinationDirectoryConstant, "a.py"), overlapError.Path)
	require.Empty(testInstance, executor.receivedDetails)

	preservedContent, readError := afero.ReadFile(fileSystem, filepath.Join(testDestinationDirectoryConstant, "a.py"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "existing", string(preservedContent))
}

func TestExecutorRejectsDestinationInsideSource(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{"a.py": ""})

	migrationExecutor, creationError := migration.NewExecutor(nil, &recordingRewriteExecutor{}, fileSystem)
	require.NoError(testInstance, creationError)

	for _, destination := range []string{testSourceDirectoryConstant, filepath.Join(testSourceDirectoryConstant, "out")} {
		_, executeError := migrationExecutor.Execute(context.Background(), testSourceDirectoryConstant, destination)
		require.ErrorIs(testInstance, executeError, migration.ErrDestinationInsideSource)
	}
}

func TestExecutorSurfacesRewriteFailure(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	populateSourceTree(testInstance, fileSystem, map[string]string{"a.py": ""})
	require.NoError(testInstance, fileSystem.MkdirAll(testDestinationDirectoryConstant, 0o755))

	rewriteFailure := execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandRewriteTool},
		Cause:   context.DeadlineExceeded,
	}
	executor := &recordingRewriteExecutor{writeFailure: rewriteFailure}
	migrationExecutor, creationError := migration.NewExecutor(nil, executor, fileSystem)
	require.NoError(testInstance, creationError)

	result, executeError := migrationExecutor.Execute(context.Background(), testSourceDirectoryConstant, testDestinationDirectoryConstant)
	require.ErrorIs(testInstance, executeError, context.DeadlineExceeded)
	require.Equal(testInstance, []string{"a.py"}, result.CopiedFiles)
}

func TestExecutorFollowsSymbolicLinks(testInstance *testing.T) {
	workspaceDirectory := testInstance.TempDir()
	sourceDirectory := filepath.Join(workspaceDirectory, "legacy")
	destinationDirectory := filepath.Join(workspaceDirectory, "migrated")
	sharedDirectory := filepath.Join(workspaceDirectory, "shared")

	require.NoError(testInstance, os.MkdirAll(sourceDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(destinationDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(sharedDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(sourceDirectory, "main.py"), []byte("print 'main'\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(sharedDirectory, "helpers.py"), []byte("print 'helpers'\n"), 0o644))
	require.NoError(testInstance, os.Symlink(sharedDirectory, filepath.Join(sourceDirectory, "helpers")))
	require.NoError(testInstance, os.Symlink(filepath.Join(sourceDirectory, "main.py"), filepath.Join(sourceDirectory, "zz_alias.py")))

	executor := &recordingRewriteExecutor{}
	migrationExecutor, creationError := migration.NewExecutor(nil, executor, afero.NewOsFs())
	require.NoError(testInstance, creationError)

	result, executeError := migrationExecutor.Execute(context.Background(), sourceDirectory, destinationDirectory)
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, []string{filepath.Join("helpers", "helpers.py"), "main.py", "zz_alias.py"}, result.CopiedFiles)

	linkedDirectoryInfo, statError := os.Lstat(filepath.Join(destinationDirectory, "helpers"))
	require.NoError(testInstance, statError)
	require.True(testInstance, linkedDirectoryInfo.IsDir())

	copiedContent, readError := os.ReadFile(filepath.Join(destinationDirectory, "helpers", "helpers.py"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "print 'helpers'\n", string(copiedContent))

	aliasContent, aliasError := os.ReadFile(filepath.Join(destinationDirectory, "zz_alias.py"))
	require.NoError(testInstance, aliasError)
	require.Equal(testInstance, "print 'main'\n", string(aliasContent))
}

func TestExecutorRejectsSymbolicLinkCycles(testInstance *testing.T) {
	workspaceDirectory := testInstance.TempDir()
	sourceDirectory := filepath.Join(workspaceDirectory, "legacy")
	destinationDirectory := filepath.Join(workspaceDirectory, "migrated")

	require.NoError(testInstance, os.MkdirAll(filepath.Join(sourceDirectory, "pkg"), 0o755))
	require.NoError(testInstance, os.MkdirAll(destinationDirectory, 0o755))
	require.NoError(testInstance, os.Symlink(sourceDirectory, filepath.Join(sourceDirectory, "pkg", "loop")))

	executor := &recordingRewriteExecutor{}
	migrationExecutor, creationError := migration.NewExecutor(nil, executor, afero.NewOsFs())
	require.NoError(testInstance, creationError)

	_, executeError := migrationExecutor.Execute(context.Background(), sourceDirectory, destinationDirectory)
	var entryError migration.UnsupportedEntryError
	require.ErrorAs(testInstance, executeError, &entryError)
	require.Equal(testInstance, filepath.Join(sourceDirectory, "pkg", "loop"), entryError.Path)
	require.Empty(testInstance, executor.receivedDetails)
}
