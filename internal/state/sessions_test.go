package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/voxmail/voxmail/internal/workflow"
	"github.com/voxmail/voxmail/pkg/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSaveAndGetSession(t *testing.T) {
	db := testDB(t)

	s := workflow.NewSession("conv-1")
	s.State = models.StateAwaitingApproval
	s.Direct = true
	s.Draft = &models.Draft{
		ID:        "draft-1",
		Recipient: "john@example.com",
		Subject:   "Quarterly review",
		Body:      "Hi John,\n\nHere are the numbers.",
	}
	s.Revisions = []models.Revision{
		{PreviousBody: "old body", RequestedChange: "make it shorter", Timestamp: time.Now().UTC()},
	}
	s.Transitions = []workflow.TransitionRecord{
		{From: models.StateIdle, To: models.StateDrafting, Action: models.ActionStartDraft, At: time.Now().UTC()},
	}

	if err := db.SaveSession(s); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := db.GetSession("conv-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil for existing session")
	}
	if got.State != models.StateAwaitingApproval {
		t.Errorf("State = %q, want %q", got.State, models.StateAwaitingApproval)
	}
	if !got.Direct {
		t.Error("Direct flag not persisted")
	}
	if got.Draft == nil || got.Draft.Recipient != "john@example.com" {
		t.Errorf("Draft = %+v, want recipient john@example.com", got.Draft)
	}
	if len(got.Revisions) != 1 || got.Revisions[0].RequestedChange != "make it shorter" {
		t.Errorf("Revisions = %+v, want one entry", got.Revisions)
	}
	if len(got.Transitions) != 1 || got.Transitions[0].Action != models.ActionStartDraft {
		t.Errorf("Transitions = %+v, want one start_draft entry", got.Transitions)
	}
	if got.MaxRevisions != workflow.DefaultMaxRevisions {
		t.Errorf("MaxRevisions = %d, want %d", got.MaxRevisions, workflow.DefaultMaxRevisions)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := testDB(t)

	got, err := db.GetSession("absent")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetSession = %+v, want nil for missing session", got)
	}
}

func TestSaveSession_Upsert(t *testing.T) {
	db := testDB(t)

	s := workflow.NewSession("conv-1")
	if err := db.SaveSession(s); err != nil {
		t.Fatalf("first save: %v", err)
	}

	s.State = models.StateDrafting
	if err := db.SaveSession(s); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := db.GetSession("conv-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.State != models.StateDrafting {
		t.Errorf("State = %q, want %q after upsert", got.State, models.StateDrafting)
	}
}

func TestSaveSession_NilDraftRoundTrips(t *testing.T) {
	db := testDB(t)

	s := workflow.NewSession("conv-1")
	if err := db.SaveSession(s); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := db.GetSession("conv-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Draft != nil {
		t.Errorf("Draft = %+v, want nil", got.Draft)
	}
}

func TestDeleteSession(t *testing.T) {
	db := testDB(t)

	if err := db.SaveSession(workflow.NewSession("conv-1")); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := db.DeleteSession("conv-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	got, err := db.GetSession("conv-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Error("session still present after delete")
	}
}

func TestListSessions_StateFilter(t *testing.T) {
	db := testDB(t)

	a := workflow.NewSession("a")
	b := workflow.NewSession("b")
	b.State = models.StateAwaitingApproval
	c := workflow.NewSession("c")
	c.State = models.StateAwaitingApproval

	for _, s := range []*workflow.Session{a, b, c} {
		if err := db.SaveSession(s); err != nil {
			t.Fatalf("SaveSession(%s) failed: %v", s.ID, err)
		}
	}

	all, err := db.ListSessions(nil)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	awaiting := models.StateAwaitingApproval
	filtered, err := db.ListSessions(&awaiting)
	if err != nil {
		t.Fatalf("ListSessions(filter) failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("len(filtered) = %d, want 2", len(filtered))
	}
	for _, s := range filtered {
		if s.State != models.StateAwaitingApproval {
			t.Errorf("filtered session %s has state %q", s.ID, s.State)
		}
	}
}

func TestListIdleCandidates(t *testing.T) {
	db := testDB(t)

	stale := workflow.NewSession("stale")
	stale.State = models.StateAwaitingApproval
	stale.LastTransitionAt = time.Now().Add(-2 * time.Hour)

	fresh := workflow.NewSession("fresh")
	fresh.State = models.StateAwaitingApproval

	idle := workflow.NewSession("idle")
	idle.LastTransitionAt = time.Now().Add(-2 * time.Hour)

	for _, s := range []*workflow.Session{stale, fresh, idle} {
		if err := db.SaveSession(s); err != nil {
			t.Fatalf("SaveSession(%s) failed: %v", s.ID, err)
		}
	}

	got, err := db.ListIdleCandidates(time.Hour)
	if err != nil {
		t.Fatalf("ListIdleCandidates failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "stale" {
		t.Errorf("ListIdleCandidates = %v, want just the stale awaiting session", ids(got))
	}
}

func TestPurgeOldSessions(t *testing.T) {
	db := testDB(t)

	sent := workflow.NewSession("sent")
	sent.State = models.StateSent
	sent.LastTransitionAt = time.Now().Add(-48 * time.Hour)

	rejected := workflow.NewSession("rejected")
	rejected.State = models.StateRejected
	rejected.LastTransitionAt = time.Now().Add(-48 * time.Hour)

	recent := workflow.NewSession("recent")
	recent.State = models.StateSent

	active := workflow.NewSession("active")
	active.State = models.StateAwaitingApproval
	active.LastTransitionAt = time.Now().Add(-48 * time.Hour)

	for _, s := range []*workflow.Session{sent, rejected, recent, active} {
		if err := db.SaveSession(s); err != nil {
			t.Fatalf("SaveSession(%s) failed: %v", s.ID, err)
		}
	}

	n, err := db.PurgeOldSessions(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldSessions failed: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d sessions, want 2", n)
	}

	remaining, err := db.ListSessions(nil)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("len(remaining) = %d, want 2 (%v)", len(remaining), ids(remaining))
	}
}

func ids(sessions []*workflow.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}
