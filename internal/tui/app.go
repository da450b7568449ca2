package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxmail/voxmail/pkg/models"
)

// AssistantReplyMsg delivers the assistant's reply for the current turn.
type AssistantReplyMsg struct {
	Text string
}

// AssistantErrorMsg delivers a turn-level failure.
type AssistantErrorMsg struct {
	Err error
}

// WorkflowStateMsg updates the status line with the session's workflow state.
type WorkflowStateMsg struct {
	State models.WorkflowState
}

// ConnectionMsg updates the status line with the chat connection state.
type ConnectionMsg struct {
	Connected bool
}

// ChatApp is the main model for the chat interface.
type ChatApp struct {
	transcript *Transcript
	inputField *InputField
	spin       spinner.Model

	width  int
	height int

	waiting   bool
	connected bool
	state     models.WorkflowState
	quitting  bool

	// onSubmit is invoked with each submitted utterance. It runs outside the
	// Update loop; the reply comes back as an AssistantReplyMsg.
	onSubmit func(text string)
}

// NewChatApp creates the chat interface model.
func NewChatApp() *ChatApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	return &ChatApp{
		transcript: NewTranscript(),
		inputField: NewInputField(),
		spin:       sp,
		state:      models.StateIdle,
	}
}

// SetSubmitHandler sets the callback for submitted utterances.
func (a *ChatApp) SetSubmitHandler(handler func(text string)) {
	a.onSubmit = handler
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	return tea.Batch(a.inputField.Focus(), a.spin.Tick)
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			a.transcript, cmd = a.transcript.Update(msg)
			return a, cmd

		default:
			if a.waiting {
				// One turn at a time; drop keystrokes while the assistant works.
				return a, nil
			}
			var cmd tea.Cmd
			a.inputField, cmd = a.inputField.Update(msg)
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case MessageSubmittedMsg:
		a.transcript.Append(RoleUser, msg.Text)
		a.waiting = true
		if a.onSubmit != nil {
			a.onSubmit(msg.Text)
		}
		return a, nil

	case AssistantReplyMsg:
		a.waiting = false
		a.transcript.Append(RoleAssistant, msg.Text)
		return a, nil

	case AssistantErrorMsg:
		a.waiting = false
		a.transcript.Append(RoleSystem, fmt.Sprintf("error: %v", msg.Err))
		return a, nil

	case WorkflowStateMsg:
		a.state = msg.State
		return a, nil

	case ConnectionMsg:
		a.connected = msg.Connected
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// updateSizes propagates the terminal size to child components.
func (a *ChatApp) updateSizes() {
	inputHeight := 3
	statusHeight := 1
	transcriptHeight := a.height - inputHeight - statusHeight - 1
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	a.transcript.SetSize(a.width, transcriptHeight)
	a.inputField.SetWidth(a.width)
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.transcript.View(),
		a.statusLine(),
		a.inputField.View(),
	)
}

// statusLine renders connection, workflow state, and the busy spinner.
func (a *ChatApp) statusLine() string {
	connStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	conn := connStyle.Render("offline")
	if a.connected {
		conn = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("connected")
	}

	state := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Render(string(a.state))

	line := fmt.Sprintf(" %s | %s", conn, state)
	if a.waiting {
		line += " | " + a.spin.View() + "working..."
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(line)
}

// NewProgram creates a Bubbletea program running the chat interface.
func NewProgram() (*tea.Program, *ChatApp) {
	app := NewChatApp()
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
