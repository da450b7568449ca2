package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voxmail/voxmail/internal/workflow"
	"github.com/voxmail/voxmail/pkg/models"
)

// Workflow session CRUD operations. Drafts, revision history, and the
// transition audit trail are stored as JSON documents alongside the flat
// columns used for filtering.

// SaveSession inserts or replaces a workflow session record.
func (db *DB) SaveSession(s *workflow.Session) error {
	draft, err := marshalNullable(s.Draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	revisions, err := json.Marshal(s.Revisions)
	if err != nil {
		return fmt.Errorf("marshal revisions: %w", err)
	}
	transitions, err := json.Marshal(s.Transitions)
	if err != nil {
		return fmt.Errorf("marshal transitions: %w", err)
	}

	_, err = db.Exec(`
		INSERT OR REPLACE INTO workflow_sessions
			(id, state, draft, revisions, transitions, direct, max_revisions, created_at, last_transition_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, string(s.State), draft, string(revisions), string(transitions),
		boolToInt(s.Direct), s.MaxRevisions, formatTime(s.CreatedAt), formatTime(s.LastTransitionAt))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession retrieves a workflow session by ID. Returns nil if not found.
func (db *DB) GetSession(id string) (*workflow.Session, error) {
	row := db.QueryRow(`
		SELECT id, state, draft, revisions, transitions, direct, max_revisions, created_at, last_transition_at
		FROM workflow_sessions WHERE id = ?
	`, id)

	s, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// DeleteSession deletes a workflow session by ID.
func (db *DB) DeleteSession(id string) error {
	_, err := db.Exec("DELETE FROM workflow_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListSessions lists all sessions, optionally filtered by state.
func (db *DB) ListSessions(stateFilter *models.WorkflowState) ([]*workflow.Session, error) {
	var rows *sql.Rows
	var err error

	if stateFilter != nil {
		rows, err = db.Query(`
			SELECT id, state, draft, revisions, transitions, direct, max_revisions, created_at, last_transition_at
			FROM workflow_sessions WHERE state = ? ORDER BY last_transition_at DESC
		`, string(*stateFilter))
	} else {
		rows, err = db.Query(`
			SELECT id, state, draft, revisions, transitions, direct, max_revisions, created_at, last_transition_at
			FROM workflow_sessions ORDER BY last_transition_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*workflow.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListIdleCandidates returns sessions waiting on a human (AWAITING_APPROVAL
// or REVISING) whose last transition is older than the cutoff. The timeout
// reaper cancels these back to IDLE.
func (db *DB) ListIdleCandidates(olderThan time.Duration) ([]*workflow.Session, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	rows, err := db.Query(`
		SELECT id, state, draft, revisions, transitions, direct, max_revisions, created_at, last_transition_at
		FROM workflow_sessions
		WHERE state IN (?, ?) AND last_transition_at < ?
	`, string(models.StateAwaitingApproval), string(models.StateRevising), cutoff)
	if err != nil {
		return nil, fmt.Errorf("list idle candidates: %w", err)
	}
	defer rows.Close()

	var sessions []*workflow.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// PurgeOldSessions deletes terminal-state sessions older than the specified
// duration. Returns the number of sessions deleted.
func (db *DB) PurgeOldSessions(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	result, err := db.Exec(`
		DELETE FROM workflow_sessions
		WHERE state IN (?, ?) AND last_transition_at < ?
	`, string(models.StateSent), string(models.StateRejected), cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// scanSession scans one session row via the provided Scan function.
func scanSession(scan func(...any) error) (*workflow.Session, error) {
	var s workflow.Session
	var stateStr, createdAt, lastTransitionAt string
	var draft, revisions, transitions sql.NullString
	var direct int

	err := scan(&s.ID, &stateStr, &draft, &revisions, &transitions, &direct,
		&s.MaxRevisions, &createdAt, &lastTransitionAt)
	if err != nil {
		return nil, err
	}

	s.State = models.WorkflowState(stateStr)
	s.Direct = direct != 0
	if draft.Valid && draft.String != "" {
		var d models.Draft
		if err := json.Unmarshal([]byte(draft.String), &d); err != nil {
			return nil, fmt.Errorf("unmarshal draft: %w", err)
		}
		s.Draft = &d
	}
	if revisions.Valid {
		if err := json.Unmarshal([]byte(revisions.String), &s.Revisions); err != nil {
			return nil, fmt.Errorf("unmarshal revisions: %w", err)
		}
	}
	if transitions.Valid {
		if err := json.Unmarshal([]byte(transitions.String), &s.Transitions); err != nil {
			return nil, fmt.Errorf("unmarshal transitions: %w", err)
		}
	}
	s.CreatedAt, _ = parseTime(createdAt)
	s.LastTransitionAt, _ = parseTime(lastTransitionAt)
	return &s, nil
}

// marshalNullable marshals a draft to JSON, returning nil for a nil draft.
func marshalNullable(d *models.Draft) (any, error) {
	if d == nil {
		return nil, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
