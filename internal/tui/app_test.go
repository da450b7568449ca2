package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxmail/voxmail/pkg/models"
)

func sized(t *testing.T, a *ChatApp) *ChatApp {
	t.Helper()
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*ChatApp)
}

func TestChatApp_SubmitInvokesHandlerAndWaits(t *testing.T) {
	a := sized(t, NewChatApp())

	var submitted string
	a.SetSubmitHandler(func(text string) { submitted = text })

	model, _ := a.Update(MessageSubmittedMsg{Text: "check my inbox"})
	a = model.(*ChatApp)

	if submitted != "check my inbox" {
		t.Errorf("submitted = %q, want 'check my inbox'", submitted)
	}
	if !a.waiting {
		t.Error("expected app to be waiting after a submission")
	}
	if !strings.Contains(a.View(), "check my inbox") {
		t.Error("expected transcript to show the user's utterance")
	}
}

func TestChatApp_ReplyEndsWaiting(t *testing.T) {
	a := sized(t, NewChatApp())

	model, _ := a.Update(MessageSubmittedMsg{Text: "check my inbox"})
	a = model.(*ChatApp)
	model, _ = a.Update(AssistantReplyMsg{Text: "Found 2 email(s)"})
	a = model.(*ChatApp)

	if a.waiting {
		t.Error("expected waiting to clear after a reply")
	}
	if !strings.Contains(a.View(), "Found 2 email(s)") {
		t.Error("expected transcript to show the reply")
	}
}

func TestChatApp_ErrorShownInTranscript(t *testing.T) {
	a := sized(t, NewChatApp())

	model, _ := a.Update(MessageSubmittedMsg{Text: "send it"})
	a = model.(*ChatApp)
	model, _ = a.Update(AssistantErrorMsg{Err: errors.New("gateway unreachable")})
	a = model.(*ChatApp)

	if a.waiting {
		t.Error("expected waiting to clear after an error")
	}
	if !strings.Contains(a.View(), "gateway unreachable") {
		t.Error("expected transcript to show the error")
	}
}

func TestChatApp_StatusLine(t *testing.T) {
	a := sized(t, NewChatApp())

	model, _ := a.Update(ConnectionMsg{Connected: true})
	a = model.(*ChatApp)
	model, _ = a.Update(WorkflowStateMsg{State: models.StateAwaitingApproval})
	a = model.(*ChatApp)

	view := a.View()
	if !strings.Contains(view, "connected") {
		t.Error("expected status line to show connected")
	}
	if !strings.Contains(view, string(models.StateAwaitingApproval)) {
		t.Error("expected status line to show the workflow state")
	}
}

func TestChatApp_KeysDroppedWhileWaiting(t *testing.T) {
	a := sized(t, NewChatApp())

	model, _ := a.Update(MessageSubmittedMsg{Text: "draft an email to dana"})
	a = model.(*ChatApp)

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	a = model.(*ChatApp)

	if a.inputField.input.Value() != "" {
		t.Errorf("input = %q, want keystrokes dropped while waiting", a.inputField.input.Value())
	}
}
