// Package compatibility decides whether installed dependencies can run under
// the target interpreter by evaluating each distribution's Requires-Python
// metadata against a PEP 508 marker environment inside the Python interpreter.
//
// The marker environment defaults to the active interpreter. Setting a target
// environment overrides individual markers such as python_version and
// python_full_version.
package compatibility
