// Package models defines the shared domain types for voxmail: intents,
// workflow states, and email drafts.
package models

import "time"

// Draft is an email draft moving through the approval workflow.
type Draft struct {
	ID             string `json:"id"`
	Recipient      string `json:"recipient"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentsRef string `json:"attachments_ref,omitempty"`
}

// Revision records one rejected-and-revised iteration of a draft.
type Revision struct {
	PreviousBody    string    `json:"previous_body"`
	RequestedChange string    `json:"requested_change"`
	Timestamp       time.Time `json:"timestamp"`
}
