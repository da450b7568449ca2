package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "you"
	RoleAssistant Role = "voxmail"
	RoleSystem    Role = "system"
)

// Entry is one line of the conversation transcript.
type Entry struct {
	Role Role
	Text string
	At   time.Time
}

// Transcript renders the scrolling conversation history.
type Transcript struct {
	vp      viewport.Model
	entries []Entry
	width   int
}

// NewTranscript creates an empty transcript view.
func NewTranscript() *Transcript {
	vp := viewport.New(80, 20)
	return &Transcript{vp: vp, width: 80}
}

// SetSize resizes the transcript viewport.
func (t *Transcript) SetSize(width, height int) {
	t.width = width
	t.vp.Width = width
	t.vp.Height = height
	t.vp.SetContent(t.render())
}

// Append adds an entry and scrolls to the bottom.
func (t *Transcript) Append(role Role, text string) {
	t.entries = append(t.entries, Entry{Role: role, Text: text, At: time.Now()})
	t.vp.SetContent(t.render())
	t.vp.GotoBottom()
}

// Update handles scrolling keys.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.vp, cmd = t.vp.Update(msg)
	return t, cmd
}

// View renders the transcript viewport.
func (t *Transcript) View() string {
	return t.vp.View()
}

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	systemLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func (t *Transcript) render() string {
	var b strings.Builder
	for i, e := range t.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatEntry(e, t.width))
	}
	return b.String()
}

// formatEntry lays out one entry as a labeled, wrapped block.
func formatEntry(e Entry, width int) string {
	var label string
	switch e.Role {
	case RoleUser:
		label = userLabelStyle.Render(string(RoleUser))
	case RoleAssistant:
		label = assistantLabelStyle.Render(string(RoleAssistant))
	default:
		label = systemLabelStyle.Render(string(e.Role))
	}

	stamp := timeStyle.Render(e.At.Format("15:04"))
	header := label + " " + stamp

	bodyWidth := width - 2
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	body := lipgloss.NewStyle().
		Width(bodyWidth).
		PaddingLeft(2).
		Render(e.Text)

	return header + "\n" + body + "\n"
}
