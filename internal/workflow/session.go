// Package workflow implements the approval state machine that gates every
// outgoing email behind an explicit human approval step.
package workflow

import (
	"time"

	"github.com/voxmail/voxmail/pkg/models"
)

// DefaultMaxRevisions bounds the revision history kept on a session.
// Oldest entries are truncated first; the pending draft itself is never
// dropped by truncation.
const DefaultMaxRevisions = 20

// TransitionRecord is one entry of a session's audit trail. Every state the
// machine passes through is recorded, including the synthetic intermediate
// states of a direct-send bypass.
type TransitionRecord struct {
	From   models.WorkflowState `json:"from"`
	To     models.WorkflowState `json:"to"`
	Action models.Action        `json:"action"`
	At     time.Time            `json:"at"`
}

// Session is the durable unit of approval-flow state, keyed by a
// conversation identifier. It is mutated exclusively through Transition.
type Session struct {
	ID               string               `json:"id"`
	State            models.WorkflowState `json:"state"`
	Draft            *models.Draft        `json:"draft,omitempty"`
	Revisions        []models.Revision    `json:"revisions,omitempty"`
	Transitions      []TransitionRecord   `json:"transitions,omitempty"`
	Direct           bool                 `json:"direct"`
	MaxRevisions     int                  `json:"max_revisions"`
	CreatedAt        time.Time            `json:"created_at"`
	LastTransitionAt time.Time            `json:"last_transition_at"`
}

// NewSession creates a session in the IDLE state.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:               id,
		State:            models.StateIdle,
		MaxRevisions:     DefaultMaxRevisions,
		CreatedAt:        now,
		LastTransitionAt: now,
	}
}

// PendingDraft returns the draft awaiting composition, approval, or revision.
// It is non-nil exactly when the state carries a pending draft; the approved
// draft held for dispatch is not considered pending.
func (s *Session) PendingDraft() *models.Draft {
	if !s.State.HasPendingDraft() {
		return nil
	}
	return s.Draft
}

// AppendRevision records a rejected-and-revised iteration, truncating the
// oldest entries once the configured bound is exceeded.
func (s *Session) AppendRevision(rev models.Revision) {
	s.Revisions = append(s.Revisions, rev)
	max := s.MaxRevisions
	if max <= 0 {
		max = DefaultMaxRevisions
	}
	if len(s.Revisions) > max {
		s.Revisions = s.Revisions[len(s.Revisions)-max:]
	}
}

// IdleSince reports how long the session has sat in its current state.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastTransitionAt)
}

// record appends an audit-trail entry and bumps the transition timestamp.
func (s *Session) record(from models.WorkflowState, action models.Action, at time.Time) {
	s.Transitions = append(s.Transitions, TransitionRecord{
		From:   from,
		To:     s.State,
		Action: action,
		At:     at,
	})
	s.LastTransitionAt = at
}
