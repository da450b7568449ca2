package models

// WorkflowState represents a state of the email approval workflow.
type WorkflowState string

const (
	StateIdle             WorkflowState = "idle"
	StateDrafting         WorkflowState = "drafting"
	StateAwaitingApproval WorkflowState = "awaiting_approval"
	StateRevising         WorkflowState = "revising"
	StateApproved         WorkflowState = "approved"
	StateRejected         WorkflowState = "rejected"
	StateSent             WorkflowState = "sent"
	StateError            WorkflowState = "error"
)

// Valid returns true if the state is a known value.
func (s WorkflowState) Valid() bool {
	switch s {
	case StateIdle, StateDrafting, StateAwaitingApproval, StateRevising,
		StateApproved, StateRejected, StateSent, StateError:
		return true
	default:
		return false
	}
}

// Terminal returns true for states that end the current draft's lifecycle.
// A new drafting cycle always starts a fresh draft, never resurrects one
// that reached a terminal state.
func (s WorkflowState) Terminal() bool {
	return s == StateSent || s == StateRejected
}

// HasPendingDraft returns true for states in which a pending (not yet
// approved) draft must exist on the session.
func (s WorkflowState) HasPendingDraft() bool {
	switch s {
	case StateDrafting, StateAwaitingApproval, StateRevising:
		return true
	default:
		return false
	}
}

// Action represents a transition request against the approval workflow.
type Action string

const (
	ActionStartDraft         Action = "start_draft"
	ActionDraftReady         Action = "draft_ready"
	ActionApprove            Action = "approve"
	ActionRejectWithFeedback Action = "reject_with_feedback"
	ActionRejectFinal        Action = "reject_final"
	ActionSendSuccess        Action = "send_success"
	ActionSendFailure        Action = "send_failure"
	ActionRetry              Action = "retry"
	ActionCancel             Action = "cancel"
)

// Valid returns true if the action is a known value.
func (a Action) Valid() bool {
	switch a {
	case ActionStartDraft, ActionDraftReady, ActionApprove,
		ActionRejectWithFeedback, ActionRejectFinal, ActionSendSuccess,
		ActionSendFailure, ActionRetry, ActionCancel:
		return true
	default:
		return false
	}
}
