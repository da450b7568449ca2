package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voxmail/voxmail/internal/state"
	"github.com/voxmail/voxmail/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workflow session state",
	Long: `Display the state of the approval workflow sessions.

Shows:
  - Sessions with a draft in flight and what they are waiting on
  - Recently finished sessions
  - The database in use`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Try project database first, then global.
	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = state.GlobalDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No sessions yet. Run 'voxmail' to start a conversation.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	sessions, err := db.ListSessions(nil)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	fmt.Printf("Database: %s\n\n", dbPath)

	var active, finished []displayRow
	for _, s := range sessions {
		row := displayRow{
			id:        s.ID,
			state:     s.State,
			revisions: len(s.Revisions),
			ago:       time.Since(s.LastTransitionAt),
		}
		if s.State == models.StateIdle || s.State.Terminal() {
			finished = append(finished, row)
		} else {
			active = append(active, row)
		}
	}

	if len(active) == 0 {
		fmt.Println("No drafts in flight.")
	} else {
		fmt.Println("Drafts in flight:")
		for _, r := range active {
			printSessionRow(r)
		}
	}

	if len(finished) > 0 {
		fmt.Println()
		fmt.Println("Recent sessions:")
		for i, r := range finished {
			if i >= 5 {
				break
			}
			printSessionRow(r)
		}
	}

	return nil
}

type displayRow struct {
	id        string
	state     models.WorkflowState
	revisions int
	ago       time.Duration
}

func printSessionRow(r displayRow) {
	c := stateColor(r.state)
	extra := ""
	if r.revisions > 0 {
		extra = fmt.Sprintf(", %d revision(s)", r.revisions)
	}
	fmt.Printf("  %s: %s (%s ago%s)\n", r.id, c.Sprint(string(r.state)), formatDuration(r.ago), extra)
}

func stateColor(s models.WorkflowState) *color.Color {
	switch s {
	case models.StateAwaitingApproval, models.StateRevising:
		return color.New(color.FgYellow)
	case models.StateError:
		return color.New(color.FgRed)
	case models.StateRejected:
		return color.New(color.FgMagenta)
	case models.StateApproved:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
