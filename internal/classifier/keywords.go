// Package classifier provides deterministic intent classification for user
// utterances. It runs synchronously ahead of any language-model reasoning.
package classifier

// Keywords is the single source of truth for intent classification keywords.
// These keywords drive the tiered rule evaluation in classifier.go; the tier
// ordering itself (fetch before create before organize before knowledge)
// lives in Classify and must not be reordered.
type Keywords struct {
	// FetchVerbs indicate reading, listing, or searching existing mail.
	// Evaluated first so that "what is the last email" is never mistaken
	// for a drafting request.
	FetchVerbs []string `yaml:"fetch_verbs"`

	// EmailNouns are the mail-object nouns a fetch or create verb must
	// combine with.
	EmailNouns []string `yaml:"email_nouns"`

	// SendVerbs indicate the phrasing itself is the approval: the draft
	// bypasses the preview step.
	SendVerbs []string `yaml:"send_verbs"`

	// DraftVerbs indicate a composition that requires the full approval
	// cycle before sending.
	DraftVerbs []string `yaml:"draft_verbs"`

	// OrganizeVerbs indicate mailbox organization actions.
	OrganizeVerbs []string `yaml:"organize_verbs"`

	// KnowledgeNouns are business-data terms routed to the memory store.
	KnowledgeNouns []string `yaml:"knowledge_nouns"`

	// PreferenceNouns are routed to the user's saved preferences.
	PreferenceNouns []string `yaml:"preference_nouns"`
}

// DefaultKeywords returns the authoritative keyword mappings.
var DefaultKeywords = Keywords{
	FetchVerbs: []string{
		"what",
		"show",
		"list",
		"check",
		"read",
		"find",
		"search",
		"look",
		"any",
		"latest",
		"unread",
	},

	EmailNouns: []string{
		"email",
		"emails",
		"mail",
		"inbox",
		"message",
		"messages",
		"reply",
		"thread",
	},

	SendVerbs: []string{
		"send",
		"email to",
		"shoot an email",
		"fire off",
	},

	DraftVerbs: []string{
		"draft",
		"compose",
		"create",
		"write",
		"prepare",
	},

	OrganizeVerbs: []string{
		"mark",
		"label",
		"archive",
		"delete",
		"star",
		"unstar",
		"flag",
		"move",
	},

	KnowledgeNouns: []string{
		"customer",
		"client",
		"order",
		"invoice",
		"meeting",
		"project",
		"deal",
		"contact",
		"company",
		"schedule",
		"policy",
	},

	PreferenceNouns: []string{
		"preference",
		"preferences",
		"settings",
		"signature",
		"tone",
		"style",
	},
}

// merge overlays non-empty override lists onto the defaults. Lists absent
// from the override file keep their default values.
func (k Keywords) merge(override Keywords) Keywords {
	out := k
	if len(override.FetchVerbs) > 0 {
		out.FetchVerbs = override.FetchVerbs
	}
	if len(override.EmailNouns) > 0 {
		out.EmailNouns = override.EmailNouns
	}
	if len(override.SendVerbs) > 0 {
		out.SendVerbs = override.SendVerbs
	}
	if len(override.DraftVerbs) > 0 {
		out.DraftVerbs = override.DraftVerbs
	}
	if len(override.OrganizeVerbs) > 0 {
		out.OrganizeVerbs = override.OrganizeVerbs
	}
	if len(override.KnowledgeNouns) > 0 {
		out.KnowledgeNouns = override.KnowledgeNouns
	}
	if len(override.PreferenceNouns) > 0 {
		out.PreferenceNouns = override.PreferenceNouns
	}
	return out
}
