// Package coordinator turns classifier output and approval-workflow state
// into routing decisions: which collaborator to invoke next, with what
// instruction. It is the only component allowed to request state transitions.
package coordinator

import (
	"github.com/voxmail/voxmail/pkg/models"
)

// Target names the external collaborator a decision routes to.
type Target string

const (
	TargetNone   Target = "none"
	TargetVoice  Target = "voice"
	TargetEmail  Target = "email"
	TargetMemory Target = "memory"
)

// Valid returns true if the target is a known value.
func (t Target) Valid() bool {
	switch t {
	case TargetNone, TargetVoice, TargetEmail, TargetMemory:
		return true
	default:
		return false
	}
}

// Op is the operation requested of the target collaborator.
type Op string

const (
	OpFetch    Op = "fetch"
	OpCompose  Op = "compose"
	OpRevise   Op = "revise"
	OpSend     Op = "send"
	OpOrganize Op = "organize"
	OpSearch   Op = "search"
	OpGather   Op = "gather"
)

// Instruction is the payload handed to the target collaborator.
type Instruction struct {
	Op        Op            `json:"op"`
	Query     string        `json:"query,omitempty"`
	Recipient string        `json:"recipient,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Feedback  string        `json:"feedback,omitempty"`
	Draft     *models.Draft `json:"draft,omitempty"`
}

// RoutingDecision is the coordinator's verdict for one utterance. Created per
// invocation, never persisted.
type RoutingDecision struct {
	// Target is the collaborator to invoke; TargetNone means the Message is
	// the whole response.
	Target Target
	// Instruction is the payload for the target, nil when Target is none.
	Instruction *Instruction
	// Message is an optional user-facing message (clarifications,
	// confirmations, previews).
	Message string
	// SessionID identifies the workflow session the decision belongs to.
	SessionID string
	// State is the session state after any transitions the decision applied.
	State models.WorkflowState
}
