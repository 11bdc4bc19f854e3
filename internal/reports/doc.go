// Package reports writes the plain-text log files produced by a migration run:
// the compatibility concerns list and the proposed 2to3 changes.
package reports
