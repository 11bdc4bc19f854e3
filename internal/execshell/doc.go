// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions pyport uses to run
// the Python interpreter, pipdeptree, and 2to3 in a testable manner.
package execshell
