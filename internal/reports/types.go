package reports

// ProposedChange is the dry-run diff reported for a single source file.
type ProposedChange struct {
	FilePath string
	Diff     string
}

// ChangeSet lists proposed changes in the order the source tree was walked.
type ChangeSet []ProposedChange

// FilePaths returns the paths covered by the change set.
func (changeSet ChangeSet) FilePaths() []string {
	filePaths := make([]string, 0, len(changeSet))
	for _, change := range changeSet {
		filePaths = append(filePaths, change.FilePath)
	}
	return filePaths
}
