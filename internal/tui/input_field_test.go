package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInputField_SubmitEmitsMessage(t *testing.T) {
	f := NewInputField()
	f.input.SetValue("archive the newsletter")

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter on non-empty input")
	}

	msg := cmd()
	submitted, ok := msg.(MessageSubmittedMsg)
	if !ok {
		t.Fatalf("expected MessageSubmittedMsg, got %T", msg)
	}
	if submitted.Text != "archive the newsletter" {
		t.Errorf("Text = %q, want 'archive the newsletter'", submitted.Text)
	}
	if f.input.Value() != "" {
		t.Errorf("input = %q, want reset after submit", f.input.Value())
	}
}

func TestInputField_EmptySubmitIgnored(t *testing.T) {
	f := NewInputField()

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		if _, ok := cmd().(MessageSubmittedMsg); ok {
			t.Error("empty input must not emit a submission")
		}
	}
}

func TestInputField_SetWidth(t *testing.T) {
	f := NewInputField()
	f.SetWidth(100)

	if f.width != 100 {
		t.Errorf("width = %d, want 100", f.width)
	}
	if f.input.Width != 96 {
		t.Errorf("input width = %d, want 96", f.input.Width)
	}
}
