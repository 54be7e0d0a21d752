// Package tui implements the Bubble Tea TUI for aula.
package tui

// Icons and symbols.
const (
	iconDot = "•"
)
