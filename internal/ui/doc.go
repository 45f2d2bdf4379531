// Package ui styles CLI status output with lipgloss.
//
// The default palette renders headings, success/error/warning lines and [tasks.ProgressUpdate] events.
// Colors degrade to plain text when stdout is not a terminal.
package ui
