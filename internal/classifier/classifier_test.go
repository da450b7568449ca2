package classifier

import (
	"testing"
	"time"

	"github.com/voxmail/voxmail/pkg/models"
)

func utter(text string) models.Utterance {
	return models.Utterance{Text: text, Source: models.SourceText, ReceivedAt: time.Now()}
}

func TestClassify_FetchIntents(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"what is last email", "What is the last email that came in?"},
		{"show inbox", "Show me my inbox"},
		{"check mail", "Check my mail please"},
		{"list messages", "List unread messages"},
		{"search emails", "Search emails from accounting"},
		{"find thread", "Find the thread with legal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentEmailFetch {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, models.IntentEmailFetch)
			}
			if got.Confidence < 0.9 {
				t.Errorf("Classify(%q).Confidence = %v, want >= 0.9", tt.text, got.Confidence)
			}
			if got.Slots.Query == "" {
				t.Errorf("Classify(%q) expected query slot", tt.text)
			}
		})
	}
}

func TestClassify_FetchBeatsCreate(t *testing.T) {
	// Utterances matching both the fetch and creation tiers must resolve to
	// EMAIL_FETCH: the fetch tier is evaluated first to prevent read requests
	// from being miscategorized as drafting.
	tests := []struct {
		name string
		text string
	}{
		{"what with create verb", "What is the last email that came in?"},
		{"check before writing", "Check the email I need to write a reply to"},
		{"show drafts", "Show me the draft emails from last week"},
		{"find sent mail", "Find the email I sent to Sarah"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentEmailFetch {
				t.Errorf("Classify(%q).Intent = %q, want %q (fetch tier wins)", tt.text, got.Intent, models.IntentEmailFetch)
			}
		})
	}
}

func TestClassify_DraftIntent(t *testing.T) {
	c := New()
	got := c.Classify(utter("Draft an email to john@example.com about the meeting"))

	if got.Intent != models.IntentEmailDraft {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentEmailDraft)
	}
	if got.Confidence < 0.9 {
		t.Errorf("Confidence = %v, want >= 0.9", got.Confidence)
	}
	if got.Slots.Recipient != "john@example.com" {
		t.Errorf("Recipient = %q, want %q", got.Slots.Recipient, "john@example.com")
	}
	if got.Slots.SubjectHint != "the meeting" {
		t.Errorf("SubjectHint = %q, want %q", got.Slots.SubjectHint, "the meeting")
	}
}

func TestClassify_DraftVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"compose", "Compose an email to the finance team"},
		{"prepare", "Prepare a message to Dana regarding the renewal"},
		{"write without send", "Write an email to Bob about the launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentEmailDraft {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, models.IntentEmailDraft)
			}
		})
	}
}

func TestClassify_SendDirectIntent(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		recipient string
	}{
		{"send with address", "Send an email to ashley@example.com saying thanks", "ashley@example.com"},
		{"send with name", "Send an email to Marcus about the invoice", "Marcus"},
		{"shoot an email", "Shoot an email to the vendor saying we accept", "vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentEmailSendDirect {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, models.IntentEmailSendDirect)
			}
			if got.Slots.Recipient != tt.recipient {
				t.Errorf("Recipient = %q, want %q", got.Slots.Recipient, tt.recipient)
			}
		})
	}
}

func TestClassify_SendVerbOverridesDraftVerb(t *testing.T) {
	// "write and send" contains both a preview verb and a send verb; the
	// explicit send verb means the phrasing is the approval.
	c := New()
	got := c.Classify(utter("Write and send an email to Priya about the outage"))
	if got.Intent != models.IntentEmailSendDirect {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentEmailSendDirect)
	}
}

func TestClassify_OrganizeIntents(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"archive", "Archive the newsletter messages"},
		{"label", "Label this message as urgent"},
		{"star", "Star the email from my manager"},
		{"delete", "Delete the spam messages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentOrganizeAction {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, models.IntentOrganizeAction)
			}
		})
	}
}

func TestClassify_KnowledgeAndPreferenceIntents(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Intent
	}{
		{"customer question", "What is the status of the Acme customer?", models.IntentKnowledgeQuery},
		{"meeting question", "When is the next project meeting?", models.IntentKnowledgeQuery},
		{"preferences", "Show me my preferences", models.IntentPreferenceQuery},
		{"signature", "What is my signature set to?", models.IntentPreferenceQuery},
		{"tone setting", "Update my tone settings", models.IntentPreferenceQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != tt.want {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, tt.want)
			}
		})
	}
}

func TestClassify_EmailNounBlocksKnowledgeTier(t *testing.T) {
	// Knowledge nouns with an email-object noun in play belong to the mail
	// tiers, not the memory store.
	c := New()
	got := c.Classify(utter("Find the email about the Acme customer"))
	if got.Intent != models.IntentEmailFetch {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentEmailFetch)
	}
}

func TestClassify_Ambiguous(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"greeting", "hello"},
		{"empty", ""},
		{"whitespace", "   "},
		{"no signal", "hmm interesting"},
		{"verb without object", "please do the thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got := c.Classify(utter(tt.text))
			if got.Intent != models.IntentAmbiguous {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, models.IntentAmbiguous)
			}
			if got.Confidence != 0 {
				t.Errorf("Classify(%q).Confidence = %v, want 0", tt.text, got.Confidence)
			}
			if got.Slots != (Slots{}) {
				t.Errorf("Classify(%q).Slots = %+v, want empty", tt.text, got.Slots)
			}
		})
	}
}

func TestClassify_MatchedPatternsRecorded(t *testing.T) {
	c := New()
	got := c.Classify(utter("What is the last email that came in?"))

	if len(got.MatchedPatterns) < 2 {
		t.Fatalf("expected at least 2 matched patterns, got %v", got.MatchedPatterns)
	}
	if got.MatchedPatterns[0] != "fetch:what" {
		t.Errorf("MatchedPatterns[0] = %q, want %q", got.MatchedPatterns[0], "fetch:what")
	}
	if got.MatchedPatterns[1] != "object:email" {
		t.Errorf("MatchedPatterns[1] = %q, want %q", got.MatchedPatterns[1], "object:email")
	}
}

func TestClassify_WordBoundaries(t *testing.T) {
	// Keywords must match whole words: "read" inside "already" or "thread"
	// is not a fetch verb. ("thread" is itself an email noun, so pair the
	// utterance with no other verbs.)
	c := New()
	got := c.Classify(utter("I already replied yesterday"))
	if got.Intent != models.IntentAmbiguous {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentAmbiguous)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := New()
	got := c.Classify(utter("SEND AN EMAIL TO OPS@EXAMPLE.COM SAYING DONE"))
	if got.Intent != models.IntentEmailSendDirect {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentEmailSendDirect)
	}
}

func TestClassify_CustomKeywords(t *testing.T) {
	kw := DefaultKeywords
	kw.OrganizeVerbs = append([]string{"snooze"}, kw.OrganizeVerbs...)
	c := NewWithKeywords(kw)

	got := c.Classify(utter("Snooze the message until Monday"))
	if got.Intent != models.IntentOrganizeAction {
		t.Errorf("Intent = %q, want %q", got.Intent, models.IntentOrganizeAction)
	}
}
