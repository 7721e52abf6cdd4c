// Package tui is the interactive archive browser: a filterable,
// multi-select conversation list with a rendered preview, a statistics
// screen and one-key exports.
package tui
