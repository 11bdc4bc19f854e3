// Package dependencies lists the third-party distributions installed in the
// active Python environment by reading the pinned "name==version" entries that
// pipdeptree prints.
package dependencies
