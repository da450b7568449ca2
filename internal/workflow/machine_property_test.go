package workflow

import (
	"testing"

	"github.com/voxmail/voxmail/pkg/models"
	"pgregory.net/rapid"
)

var allActions = []models.Action{
	models.ActionStartDraft,
	models.ActionDraftReady,
	models.ActionApprove,
	models.ActionRejectWithFeedback,
	models.ActionRejectFinal,
	models.ActionSendSuccess,
	models.ActionSendFailure,
	models.ActionRetry,
	models.ActionCancel,
}

// TestProperty_SendOnlyReachableThroughApproval verifies that no sequence of
// actions ever records a transition into SENT whose origin is anything other
// than APPROVED.
func TestProperty_SendOnlyReachableThroughApproval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewSession("prop-send")
		n := rapid.IntRange(1, 50).Draw(rt, "num_actions")

		for i := 0; i < n; i++ {
			action := rapid.SampledFrom(allActions).Draw(rt, "action")
			_ = Transition(s, action)
		}

		for _, rec := range s.Transitions {
			if rec.To == models.StateSent && rec.From != models.StateApproved {
				rt.Fatalf("reached SENT from %q via %q", rec.From, rec.Action)
			}
		}
	})
}

// TestProperty_FailedTransitionsNeverMutate verifies that a rejected action
// leaves the session exactly as it was.
func TestProperty_FailedTransitionsNeverMutate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewSession("prop-mutate")
		n := rapid.IntRange(1, 50).Draw(rt, "num_actions")

		for i := 0; i < n; i++ {
			action := rapid.SampledFrom(allActions).Draw(rt, "action")
			stateBefore := s.State
			auditBefore := len(s.Transitions)

			err := Transition(s, action)
			if err != nil {
				if s.State != stateBefore {
					rt.Fatalf("failed %q mutated state %q -> %q", action, stateBefore, s.State)
				}
				if len(s.Transitions) != auditBefore {
					rt.Fatalf("failed %q appended audit records", action)
				}
			} else {
				if len(s.Transitions) != auditBefore+1 {
					rt.Fatalf("successful %q recorded %d audit entries", action, len(s.Transitions)-auditBefore)
				}
			}
		}
	})
}

// TestProperty_AuditTrailIsContiguous verifies the audit trail forms an
// unbroken chain: each record starts where the previous one ended.
func TestProperty_AuditTrailIsContiguous(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewSession("prop-chain")
		n := rapid.IntRange(1, 50).Draw(rt, "num_actions")

		for i := 0; i < n; i++ {
			_ = Transition(s, rapid.SampledFrom(allActions).Draw(rt, "action"))
		}

		prev := models.StateIdle
		for i, rec := range s.Transitions {
			if rec.From != prev {
				rt.Fatalf("record %d starts at %q, previous ended at %q", i, rec.From, prev)
			}
			prev = rec.To
		}
		if len(s.Transitions) > 0 && s.State != prev {
			rt.Fatalf("session state %q does not match last audit record %q", s.State, prev)
		}
	})
}

// TestProperty_RevisionHistoryBounded verifies the revision history never
// exceeds its configured bound and always keeps the newest entries.
func TestProperty_RevisionHistoryBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewSession("prop-revisions")
		max := rapid.IntRange(1, 10).Draw(rt, "max_revisions")
		s.MaxRevisions = max

		n := rapid.IntRange(1, 40).Draw(rt, "num_revisions")
		for i := 0; i < n; i++ {
			s.AppendRevision(models.Revision{RequestedChange: string(rune('a' + i%26))})
		}

		if len(s.Revisions) > max {
			rt.Fatalf("history has %d entries, bound is %d", len(s.Revisions), max)
		}
		if n >= max {
			// Newest entry must survive truncation.
			last := s.Revisions[len(s.Revisions)-1]
			if last.RequestedChange != string(rune('a'+(n-1)%26)) {
				rt.Fatalf("newest revision was dropped")
			}
		}
	})
}
