// Package upgrade orchestrates a Python 3 migration of a source tree.
//
// Service walks a fixed sequence of states: probe the interpreter version, scan
// and assess installed dependencies, preview the 2to3 rewrite, ask for
// confirmation, then copy and rewrite the tree. CommandBuilder exposes the
// workflow as the upgrade and check Cobra commands.
package upgrade
