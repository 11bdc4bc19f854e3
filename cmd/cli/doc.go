// Package cli constructs the pyport command-line interface. It wires the Cobra
// command hierarchy to the layered configuration loader and the zap loggers,
// and registers the upgrade and check workflows.
package cli
