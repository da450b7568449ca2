package models

import "testing"

func TestIntent_Valid(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   bool
	}{
		{"email fetch", IntentEmailFetch, true},
		{"email draft", IntentEmailDraft, true},
		{"email send direct", IntentEmailSendDirect, true},
		{"organize action", IntentOrganizeAction, true},
		{"knowledge query", IntentKnowledgeQuery, true},
		{"preference query", IntentPreferenceQuery, true},
		{"ambiguous", IntentAmbiguous, true},
		{"empty", Intent(""), false},
		{"unknown", Intent("email_delete"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.intent.Valid(); got != tt.want {
				t.Errorf("Intent(%q).Valid() = %v, want %v", tt.intent, got, tt.want)
			}
		})
	}
}
