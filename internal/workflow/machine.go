package workflow

import (
	"fmt"
	"time"

	"github.com/voxmail/voxmail/pkg/models"
)

// edges is the authoritative transition table. ActionCancel is handled
// separately: it is legal from every state and returns the session to IDLE
// with the pending draft discarded.
var edges = map[models.WorkflowState]map[models.Action]models.WorkflowState{
	models.StateIdle: {
		models.ActionStartDraft: models.StateDrafting,
	},
	models.StateDrafting: {
		models.ActionDraftReady: models.StateAwaitingApproval,
	},
	models.StateAwaitingApproval: {
		models.ActionApprove:            models.StateApproved,
		models.ActionRejectWithFeedback: models.StateRevising,
		models.ActionRejectFinal:        models.StateRejected,
	},
	models.StateRevising: {
		models.ActionDraftReady: models.StateAwaitingApproval,
	},
	models.StateApproved: {
		models.ActionSendSuccess: models.StateSent,
		models.ActionSendFailure: models.StateError,
	},
	models.StateError: {
		models.ActionRetry: models.StateApproved,
	},
}

// TransitionError reports an action that is illegal for the session's
// current state. The session is left unmutated.
type TransitionError struct {
	State  models.WorkflowState
	Action models.Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action %q not allowed in state %q", e.Action, e.State)
}

// StaleStateError reports an action that targeted an out-of-date state
// snapshot. The caller should re-fetch the session and re-present.
type StaleStateError struct {
	Expected models.WorkflowState
	Actual   models.WorkflowState
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stale state: action expected state %q but session is in %q", e.Expected, e.Actual)
}

// Next returns the state an action would lead to from the given state,
// without touching any session.
func Next(from models.WorkflowState, action models.Action) (models.WorkflowState, bool) {
	if action == models.ActionCancel {
		return models.StateIdle, true
	}
	to, ok := edges[from][action]
	return to, ok
}

// Transition applies an action to the session. On an illegal edge it returns
// a TransitionError and leaves the session unmutated. Cancel is legal from
// any state and discards the pending draft.
func Transition(s *Session, action models.Action) error {
	return TransitionExpect(s, action, s.State)
}

// TransitionExpect applies an action that names the state it expects to
// transition from. A mismatch returns a StaleStateError without mutating the
// session; this is the optimistic-concurrency check for racing decisions.
func TransitionExpect(s *Session, action models.Action, expect models.WorkflowState) error {
	if s.State != expect {
		return &StaleStateError{Expected: expect, Actual: s.State}
	}

	to, ok := Next(s.State, action)
	if !ok {
		return &TransitionError{State: s.State, Action: action}
	}

	from := s.State
	s.State = to
	switch to {
	case models.StateIdle, models.StateRejected:
		s.Draft = nil
	}
	if to == models.StateIdle {
		s.Direct = false
	}
	s.record(from, action, time.Now())
	return nil
}
