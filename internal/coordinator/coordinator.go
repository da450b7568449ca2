package coordinator

import (
	"fmt"
	"time"

	"github.com/voxmail/voxmail/internal/classifier"
	"github.com/voxmail/voxmail/internal/workflow"
	"github.com/voxmail/voxmail/pkg/models"
)

// Policy holds the operator-configurable workflow knobs.
type Policy struct {
	// DirectSendBypass allows an explicit send phrasing to stand in for the
	// approval step. When false, every draft waits for human approval even
	// when the user said "send".
	DirectSendBypass bool
	// MaxRevisions bounds the revision history kept per session.
	MaxRevisions int
}

// DefaultPolicy preserves the send-verb-as-approval behavior.
var DefaultPolicy = Policy{
	DirectSendBypass: true,
	MaxRevisions:     workflow.DefaultMaxRevisions,
}

// Coordinator applies the intent-by-state decision table. All session access
// goes through the SessionManager, so two decisions for one session are
// strictly serialized.
type Coordinator struct {
	mgr    *SessionManager
	policy Policy
}

// New creates a Coordinator.
func New(mgr *SessionManager, policy Policy) *Coordinator {
	if policy.MaxRevisions <= 0 {
		policy.MaxRevisions = workflow.DefaultMaxRevisions
	}
	return &Coordinator{mgr: mgr, policy: policy}
}

// Decide consumes a classification for one utterance and returns the routing
// decision, applying any workflow transitions it implies.
func (c *Coordinator) Decide(res classifier.Result, u models.Utterance, sessionID string) (*RoutingDecision, error) {
	var d *RoutingDecision
	err := c.mgr.WithSession(sessionID, func(s *workflow.Session) error {
		var err error
		d, err = c.decide(res, u, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Coordinator) decide(res classifier.Result, u models.Utterance, s *workflow.Session) (*RoutingDecision, error) {
	// Workflow-phase phrases take precedence over intent while the session
	// waits on the human. Outside those states "yes" means nothing special.
	switch s.State {
	case models.StateAwaitingApproval:
		if d, handled, err := c.decideApprovalPhase(u, s); handled {
			return d, err
		}
	case models.StateError:
		if d, handled, err := c.decideErrorPhase(u, s); handled {
			return d, err
		}
	}

	if isCancel(u.Text) && s.State != models.StateIdle {
		if err := workflow.Transition(s, models.ActionCancel); err != nil {
			return nil, err
		}
		return c.decision(s, TargetNone, nil, "Okay, I've discarded that draft."), nil
	}

	switch res.Intent {
	case models.IntentEmailFetch:
		return c.decision(s, TargetEmail, &Instruction{Op: OpFetch, Query: res.Slots.Query}, ""), nil

	case models.IntentOrganizeAction:
		return c.decision(s, TargetEmail, &Instruction{Op: OpOrganize, Query: res.Slots.Query}, ""), nil

	case models.IntentKnowledgeQuery, models.IntentPreferenceQuery:
		return c.decision(s, TargetMemory, &Instruction{Op: OpSearch, Query: res.Slots.Query}, ""), nil

	case models.IntentEmailDraft, models.IntentEmailSendDirect:
		return c.decideDraftIntent(res, u, s)

	case models.IntentAmbiguous:
		return c.decision(s, TargetNone, nil, clarification(s)), nil

	default:
		return nil, fmt.Errorf("unhandled intent %q", res.Intent)
	}
}

// decideApprovalPhase handles utterances arriving while a draft awaits
// approval. handled is false when the utterance is not an approval-phase
// phrase and normal intent routing should proceed.
func (c *Coordinator) decideApprovalPhase(u models.Utterance, s *workflow.Session) (*RoutingDecision, bool, error) {
	switch {
	case isBareAffirmative(u.Text):
		draft := s.PendingDraft()
		if err := workflow.TransitionExpect(s, models.ActionApprove, models.StateAwaitingApproval); err != nil {
			return nil, true, err
		}
		return c.decision(s, TargetEmail, &Instruction{Op: OpSend, Draft: draft}, ""), true, nil

	case isCancel(u.Text):
		if err := workflow.Transition(s, models.ActionCancel); err != nil {
			return nil, true, err
		}
		return c.decision(s, TargetNone, nil, "Okay, I've discarded that draft."), true, nil
	}

	feedback, rejected := parseRejection(u.Text)
	if !rejected {
		return nil, false, nil
	}

	if feedback == "" {
		if err := workflow.TransitionExpect(s, models.ActionRejectFinal, models.StateAwaitingApproval); err != nil {
			return nil, true, err
		}
		return c.decision(s, TargetNone, nil, "Understood, the draft won't be sent."), true, nil
	}

	draft := s.PendingDraft()
	if draft != nil {
		s.AppendRevision(models.Revision{
			PreviousBody:    draft.Body,
			RequestedChange: feedback,
			Timestamp:       time.Now(),
		})
	}
	if err := workflow.TransitionExpect(s, models.ActionRejectWithFeedback, models.StateAwaitingApproval); err != nil {
		return nil, true, err
	}
	return c.decision(s, TargetEmail, &Instruction{Op: OpRevise, Feedback: feedback, Draft: draft}, ""), true, nil
}

// decideErrorPhase handles utterances arriving after a failed send.
func (c *Coordinator) decideErrorPhase(u models.Utterance, s *workflow.Session) (*RoutingDecision, bool, error) {
	switch {
	case isRetry(u.Text):
		if err := workflow.TransitionExpect(s, models.ActionRetry, models.StateError); err != nil {
			return nil, true, err
		}
		return c.decision(s, TargetEmail, &Instruction{Op: OpSend, Draft: s.Draft}, ""), true, nil

	case isCancel(u.Text):
		if err := workflow.Transition(s, models.ActionCancel); err != nil {
			return nil, true, err
		}
		return c.decision(s, TargetNone, nil, "Okay, I've discarded that draft."), true, nil
	}
	return nil, false, nil
}

// decideDraftIntent starts a new drafting cycle. Terminal sessions are reset
// first: a fresh draft never resurrects one that was sent or rejected.
func (c *Coordinator) decideDraftIntent(res classifier.Result, u models.Utterance, s *workflow.Session) (*RoutingDecision, error) {
	switch {
	case s.State == models.StateIdle:
		// proceed
	case s.State.Terminal():
		if err := workflow.Transition(s, models.ActionCancel); err != nil {
			return nil, err
		}
	case s.State.HasPendingDraft():
		return c.decision(s, TargetNone, nil,
			"You already have a draft in progress. Approve it, ask for changes, or say cancel to start over."), nil
	default:
		// APPROVED or ERROR mid-dispatch.
		return c.decision(s, TargetNone, nil,
			"I'm still working on your previous email. Say cancel if you'd rather drop it."), nil
	}

	if err := workflow.TransitionExpect(s, models.ActionStartDraft, models.StateIdle); err != nil {
		return nil, err
	}
	s.Direct = res.Intent == models.IntentEmailSendDirect && c.policy.DirectSendBypass
	s.MaxRevisions = c.policy.MaxRevisions

	inst := &Instruction{
		Op:        OpCompose,
		Recipient: res.Slots.Recipient,
		Subject:   res.Slots.SubjectHint,
		Query:     u.Text,
	}
	if u.Source == models.SourceVoice {
		// Voice input goes through intent extraction before composing.
		inst.Op = OpGather
		return c.decision(s, TargetVoice, inst, ""), nil
	}
	return c.decision(s, TargetEmail, inst, ""), nil
}

// AttachDraft records a composed (or revised) draft on the session and
// advances it to AWAITING_APPROVAL. For a direct-send session with the
// bypass enabled it additionally applies the approve transition: every
// intermediate state is still recorded, only the human wait is skipped.
func (c *Coordinator) AttachDraft(sessionID string, draft *models.Draft) (*RoutingDecision, error) {
	var d *RoutingDecision
	err := c.mgr.WithSession(sessionID, func(s *workflow.Session) error {
		if !s.State.HasPendingDraft() {
			return &workflow.TransitionError{State: s.State, Action: models.ActionDraftReady}
		}
		s.Draft = draft
		if err := workflow.Transition(s, models.ActionDraftReady); err != nil {
			return err
		}

		if s.Direct && c.policy.DirectSendBypass {
			if err := workflow.TransitionExpect(s, models.ActionApprove, models.StateAwaitingApproval); err != nil {
				return err
			}
			d = c.decision(s, TargetEmail, &Instruction{Op: OpSend, Draft: s.Draft}, "")
			return nil
		}

		d = c.decision(s, TargetNone, nil, previewMessage(draft))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CompleteSend records the outcome of a send attempt. Success clears the
// session back to IDLE after recording SENT; failure lands in ERROR so the
// user can retry.
func (c *Coordinator) CompleteSend(sessionID string, sendErr error) (*RoutingDecision, error) {
	var d *RoutingDecision
	err := c.mgr.WithSession(sessionID, func(s *workflow.Session) error {
		if sendErr != nil {
			if err := workflow.TransitionExpect(s, models.ActionSendFailure, models.StateApproved); err != nil {
				return err
			}
			d = c.decision(s, TargetNone, nil,
				fmt.Sprintf("Sending failed: %v. Say retry to try again, or cancel.", sendErr))
			return nil
		}

		if err := workflow.TransitionExpect(s, models.ActionSendSuccess, models.StateApproved); err != nil {
			return err
		}
		// SENT is recorded on the audit trail; the session itself returns to
		// IDLE, ready for the next drafting cycle.
		if err := workflow.Transition(s, models.ActionCancel); err != nil {
			return err
		}
		d = c.decision(s, TargetNone, nil, "Your email has been sent.")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Coordinator) decision(s *workflow.Session, target Target, inst *Instruction, msg string) *RoutingDecision {
	return &RoutingDecision{
		Target:      target,
		Instruction: inst,
		Message:     msg,
		SessionID:   s.ID,
		State:       s.State,
	}
}

// clarification asks the user rather than guessing. Ambiguity is never
// silently resolved to a default intent.
func clarification(s *workflow.Session) string {
	if s.State == models.StateAwaitingApproval {
		return "I have a draft waiting for you. Say yes to send it, no to reject it, or tell me what to change."
	}
	return "I'm not sure what you'd like to do. You can ask me to check your inbox, draft an email, or search your notes."
}

func previewMessage(d *models.Draft) string {
	return fmt.Sprintf("Here's the draft for %s:\n\nSubject: %s\n\n%s\n\nShall I send it?",
		d.Recipient, d.Subject, d.Body)
}
