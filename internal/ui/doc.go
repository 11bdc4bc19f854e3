// Package ui turns external command events into the short progress lines
// pyport prints when the console log format is selected.
package ui
