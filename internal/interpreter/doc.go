// Package interpreter determines which Python version governs a source tree by
// asking the interpreter on PATH, run from inside that tree so that pyenv or
// virtualenv shims resolve the same way they would for the project itself.
package interpreter
