package memory

import (
	"context"
	"fmt"

	"github.com/voxmail/voxmail/pkg/models"
)

// Outcome is the final disposition of a draft.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCancelled Outcome = "cancelled"
)

// LearnFromOutcome records how a draft ended. A sent draft additionally
// contributes its body as a writing-style sample, so future drafts converge
// on the user's approved voice. Rejected drafts contribute nothing.
func (s *Store) LearnFromOutcome(ctx context.Context, userID string, draft *models.Draft, outcome Outcome, revisionCount int) error {
	if draft == nil {
		return fmt.Errorf("no draft to learn from")
	}

	s.mu.Lock()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO draft_outcomes
			(draft_id, user_id, recipient, subject, outcome, revision_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, draft.ID, userID, draft.Recipient, draft.Subject, string(outcome), revisionCount)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("record draft outcome: %w", err)
	}

	if outcome != OutcomeSent || draft.Body == "" {
		return nil
	}

	return s.Save(&Memory{
		UserID:  userID,
		Kind:    KindStyle,
		Content: draft.Body,
	})
}

// OutcomeStats summarizes a user's draft history.
type OutcomeStats struct {
	Sent      int
	Rejected  int
	Cancelled int
}

// Stats returns counts of draft outcomes for a user.
func (s *Store) Stats(ctx context.Context, userID string) (OutcomeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM draft_outcomes WHERE user_id = ? GROUP BY outcome
	`, userID)
	if err != nil {
		return OutcomeStats{}, fmt.Errorf("outcome stats: %w", err)
	}
	defer rows.Close()

	var stats OutcomeStats
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return OutcomeStats{}, fmt.Errorf("scan outcome stats: %w", err)
		}
		switch Outcome(outcome) {
		case OutcomeSent:
			stats.Sent = count
		case OutcomeRejected:
			stats.Rejected = count
		case OutcomeCancelled:
			stats.Cancelled = count
		}
	}
	return stats, rows.Err()
}
