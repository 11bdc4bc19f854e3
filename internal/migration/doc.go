// Package migration drives 2to3 over a source tree: Previewer collects the
// per-file diffs 2to3 would apply, and Executor copies the tree to its
// destination and rewrites the copy in place.
package migration
