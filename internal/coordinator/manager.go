package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voxmail/voxmail/internal/state"
	"github.com/voxmail/voxmail/internal/workflow"
	"github.com/voxmail/voxmail/pkg/models"
)

// SessionManager serializes all workflow-session access. Decisions for the
// same session never race: each utterance is processed to completion under
// that session's lock before the next one starts. Different sessions proceed
// in parallel.
type SessionManager struct {
	store state.SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionManager creates a manager backed by the given store.
func NewSessionManager(store state.SessionStore) *SessionManager {
	return &SessionManager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex dedicated to one session ID.
func (m *SessionManager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// WithSession runs fn with exclusive access to the session, loading it from
// the store (or creating it in IDLE) and saving it back afterwards. The
// session passed to fn must not escape.
func (m *SessionManager) WithSession(id string, fn func(*workflow.Session) error) error {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.store.GetSession(id)
	if err != nil {
		return fmt.Errorf("load session %s: %w", id, err)
	}
	if s == nil {
		s = workflow.NewSession(id)
	}

	if err := fn(s); err != nil {
		return err
	}

	if err := m.store.SaveSession(s); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Peek returns a read-only snapshot of the session, or nil if none exists.
func (m *SessionManager) Peek(id string) (*workflow.Session, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return m.store.GetSession(id)
}

// ReapIdle cancels sessions stuck waiting on the human past the idle
// timeout, discarding their pending drafts. Returns the IDs reaped.
func (m *SessionManager) ReapIdle(timeout time.Duration) ([]string, error) {
	candidates, err := m.store.ListIdleCandidates(timeout)
	if err != nil {
		return nil, fmt.Errorf("list idle sessions: %w", err)
	}

	var reaped []string
	for _, c := range candidates {
		err := m.WithSession(c.ID, func(s *workflow.Session) error {
			// Re-check under the lock: the session may have moved on.
			if s.State != models.StateAwaitingApproval && s.State != models.StateRevising {
				return nil
			}
			if s.IdleSince(time.Now()) < timeout {
				return nil
			}
			if err := workflow.Transition(s, models.ActionCancel); err != nil {
				return err
			}
			reaped = append(reaped, s.ID)
			return nil
		})
		if err != nil {
			return reaped, fmt.Errorf("reap session %s: %w", c.ID, err)
		}
	}
	return reaped, nil
}

// RunReaper periodically cancels idle sessions until the context is done.
// Errors are reported through onErr and do not stop the loop.
func (m *SessionManager) RunReaper(ctx context.Context, interval, timeout time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.ReapIdle(timeout); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
