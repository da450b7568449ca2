package models

import "time"

// Intent represents the classified purpose of a user utterance.
type Intent string

const (
	// IntentEmailFetch is for reading, listing, or searching existing email.
	IntentEmailFetch Intent = "email_fetch"
	// IntentEmailDraft is for composing an email that requires the full
	// approval cycle before sending.
	IntentEmailDraft Intent = "email_draft"
	// IntentEmailSendDirect is for composing an email where the phrasing
	// itself constitutes approval ("send an email to ...").
	IntentEmailSendDirect Intent = "email_send_direct"
	// IntentOrganizeAction is for mailbox organization (label, archive, star).
	IntentOrganizeAction Intent = "organize_action"
	// IntentKnowledgeQuery is for questions against stored business knowledge.
	IntentKnowledgeQuery Intent = "knowledge_query"
	// IntentPreferenceQuery is for questions about the user's saved preferences.
	IntentPreferenceQuery Intent = "preference_query"
	// IntentAmbiguous is the required fallback when no rule matches decisively.
	IntentAmbiguous Intent = "ambiguous"
)

// Valid returns true if the intent is a known value.
func (i Intent) Valid() bool {
	switch i {
	case IntentEmailFetch, IntentEmailDraft, IntentEmailSendDirect,
		IntentOrganizeAction, IntentKnowledgeQuery, IntentPreferenceQuery,
		IntentAmbiguous:
		return true
	default:
		return false
	}
}

// Source identifies the channel an utterance arrived through.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Utterance is a single incoming user message, post-transcription if it
// originated as voice. Utterances are immutable and consumed once by the
// classifier.
type Utterance struct {
	Text       string    `json:"text"`
	Source     Source    `json:"source"`
	ReceivedAt time.Time `json:"received_at"`
}
