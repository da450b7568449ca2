package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/voxmail/voxmail/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)

	m := &Memory{UserID: "u1", Kind: KindFact, Content: "Marcus is the vendor contact for Acme"}
	if err := s.Save(m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.ID == "" {
		t.Fatal("Save did not assign an ID")
	}

	got, err := s.Get(m.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Content != m.Content || got.Kind != KindFact {
		t.Errorf("Get = %+v", got)
	}
	if got.Weight != 1.0 {
		t.Errorf("Weight = %f, want default 1.0", got.Weight)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	got, err := s.Get("absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil", got)
	}
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	seed := []*Memory{
		{UserID: "u1", Kind: KindFact, Content: "Marcus is the vendor contact for Acme"},
		{UserID: "u1", Kind: KindFact, Content: "Quarterly reviews happen in March"},
		{UserID: "u2", Kind: KindFact, Content: "Marcus prefers phone calls"},
	}
	for _, m := range seed {
		if err := s.Save(m); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := s.Search(ctx, "Marcus", "u1")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != seed[0].Content {
		t.Errorf("Search = %v, want just u1's Marcus memory", got)
	}

	// Punctuation in the query must not break FTS syntax.
	if _, err := s.Search(ctx, `who is "Marcus"?`, "u1"); err != nil {
		t.Errorf("Search with punctuation failed: %v", err)
	}
}

func TestList_KindFilter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, m := range []*Memory{
		{UserID: "u1", Kind: KindFact, Content: "a fact"},
		{UserID: "u1", Kind: KindStyle, Content: "a style sample"},
	} {
		if err := s.Save(m); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	styles, err := s.List(ctx, "u1", KindStyle, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(styles) != 1 || styles[0].Kind != KindStyle {
		t.Errorf("List(style) = %v", styles)
	}

	all, err := s.List(ctx, "u1", "", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List(all) = %d entries, want 2", len(all))
	}
}

func TestLearnFromOutcome_SentContributesStyle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	draft := &models.Draft{ID: "d1", Recipient: "john@example.com", Subject: "Hi", Body: "Short and direct. Thanks, Sam"}
	if err := s.LearnFromOutcome(ctx, "u1", draft, OutcomeSent, 2); err != nil {
		t.Fatalf("LearnFromOutcome failed: %v", err)
	}

	profile, err := s.StyleProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("StyleProfile failed: %v", err)
	}
	if profile != draft.Body {
		t.Errorf("StyleProfile = %q, want the sent body", profile)
	}

	stats, err := s.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Sent != 1 {
		t.Errorf("Stats.Sent = %d, want 1", stats.Sent)
	}
}

func TestLearnFromOutcome_RejectedContributesNothing(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	draft := &models.Draft{ID: "d1", Recipient: "john@example.com", Body: "awkward draft"}
	if err := s.LearnFromOutcome(ctx, "u1", draft, OutcomeRejected, 0); err != nil {
		t.Fatalf("LearnFromOutcome failed: %v", err)
	}

	profile, err := s.StyleProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("StyleProfile failed: %v", err)
	}
	if profile != "" {
		t.Errorf("StyleProfile = %q, rejected drafts must not teach style", profile)
	}

	stats, _ := s.Stats(ctx, "u1")
	if stats.Rejected != 1 {
		t.Errorf("Stats.Rejected = %d, want 1", stats.Rejected)
	}
}

func TestTouch(t *testing.T) {
	s := testStore(t)

	m := &Memory{UserID: "u1", Kind: KindFact, Content: "a fact"}
	if err := s.Save(m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Touch(m.ID); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, _ := s.Get(m.ID)
	if got.UseCount != 1 {
		t.Errorf("UseCount = %d, want 1", got.UseCount)
	}
	if got.LastUsed.IsZero() {
		t.Error("LastUsed not stamped")
	}
}
