package state

import (
	"time"

	"github.com/voxmail/voxmail/internal/workflow"
	"github.com/voxmail/voxmail/pkg/models"
)

// SessionStore is the persistence surface the coordinator depends on.
// *DB satisfies it; tests substitute in-memory fakes.
type SessionStore interface {
	SaveSession(s *workflow.Session) error
	GetSession(id string) (*workflow.Session, error)
	DeleteSession(id string) error
	ListSessions(stateFilter *models.WorkflowState) ([]*workflow.Session, error)
	ListIdleCandidates(olderThan time.Duration) ([]*workflow.Session, error)
	PurgeOldSessions(olderThan time.Duration) (int64, error)
}

var _ SessionStore = (*DB)(nil)
