// Package tui implements the terminal chat interface built on Bubbletea.
// It renders the conversation transcript, an input field, and a status line
// showing the connection and workflow state. All assistant work happens
// outside the TUI; replies arrive as messages via the tea.Program.
package tui
