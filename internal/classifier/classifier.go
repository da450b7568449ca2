package classifier

import (
	"strings"
	"sync"

	"github.com/voxmail/voxmail/pkg/models"
)

// Confidence bands. High requires both a verb and an object/recipient slot;
// medium means only a verb matched; anything below the ambiguity floor is
// reported as AMBIGUOUS regardless of tier.
const (
	highConfidence   = 0.95
	mediumConfidence = 0.7
	ambiguityFloor   = 0.5
)

// Result is the output of a single classification. It is created fresh per
// utterance and never mutated.
type Result struct {
	// Intent is the classified purpose of the utterance.
	Intent models.Intent
	// Confidence is how confident the classification is (0.0-1.0).
	Confidence float64
	// MatchedPatterns lists the triggering keyword rules in match order,
	// for explainability and testing.
	MatchedPatterns []string
	// Slots holds the information extracted from the utterance.
	Slots Slots
}

// Slots are the named pieces of information extracted from an utterance.
// All fields are optional.
type Slots struct {
	Recipient   string `json:"recipient,omitempty"`
	SubjectHint string `json:"subject_hint,omitempty"`
	Query       string `json:"query,omitempty"`
}

// Classifier performs ordered keyword-rule evaluation over a prioritized
// tier list. It is a pure computation: no network calls, no side effects,
// and it never returns an error: unparseable input resolves to AMBIGUOUS.
type Classifier struct {
	mu sync.RWMutex
	kw Keywords
}

// New creates a Classifier with the default keyword tables.
func New() *Classifier {
	return &Classifier{kw: DefaultKeywords}
}

// NewWithKeywords creates a Classifier with custom keyword tables.
func NewWithKeywords(kw Keywords) *Classifier {
	return &Classifier{kw: kw}
}

// SetKeywords replaces the keyword tables. Used by the rules-file watcher.
func (c *Classifier) SetKeywords(kw Keywords) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kw = kw
}

// Keywords returns a snapshot of the current keyword tables.
func (c *Classifier) Keywords() Keywords {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kw
}

// Classify evaluates the utterance tier by tier and returns the first tier
// that matches. The tier ordering (fetch > create > organize > knowledge) is
// load-bearing: read requests that mention creation verbs must still resolve
// to EMAIL_FETCH, so the earliest-listed tier always wins.
func (c *Classifier) Classify(u models.Utterance) Result {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return Result{Intent: models.IntentAmbiguous, Confidence: 0}
	}

	kw := c.Keywords()
	lower := strings.ToLower(text)
	words := tokenize(lower)
	slots := extractSlots(text, words)

	// Tier 1: read/fetch verbs combined with an email-object noun.
	if fetchVerb, ok := matchAny(kw.FetchVerbs, lower, words); ok {
		if emailNoun, ok := matchAny(kw.EmailNouns, lower, words); ok {
			slots.Query = text
			return Result{
				Intent:          models.IntentEmailFetch,
				Confidence:      highConfidence,
				MatchedPatterns: []string{"fetch:" + fetchVerb, "object:" + emailNoun},
				Slots:           slots,
			}
		}
	}

	// Tier 2: creation/send verbs. An explicit send verb means the phrasing
	// itself is the approval; a preview verb requires the full cycle.
	sendVerb, hasSend := matchAny(kw.SendVerbs, lower, words)
	draftVerb, hasDraft := matchAny(kw.DraftVerbs, lower, words)
	// "email to" is a send phrasing only when no preview verb accompanies
	// it: "draft an email to ..." keeps the full approval cycle.
	if hasSend && hasDraft && sendVerb == "email to" {
		hasSend = false
	}
	if hasSend || hasDraft {
		emailNoun, hasNoun := matchAny(kw.EmailNouns, lower, words)
		if slots.Recipient != "" || hasNoun || containsWord(words, "to") {
			intent := models.IntentEmailDraft
			patterns := []string{}
			if hasSend {
				intent = models.IntentEmailSendDirect
				patterns = append(patterns, "send:"+sendVerb)
			} else {
				patterns = append(patterns, "draft:"+draftVerb)
			}
			if hasNoun {
				patterns = append(patterns, "object:"+emailNoun)
			}
			conf := mediumConfidence
			if slots.Recipient != "" || hasNoun {
				conf = highConfidence
			}
			return Result{
				Intent:          intent,
				Confidence:      conf,
				MatchedPatterns: patterns,
				Slots:           slots,
			}
		}
	}

	// Tier 3: organization verbs.
	if orgVerb, ok := matchAny(kw.OrganizeVerbs, lower, words); ok {
		patterns := []string{"organize:" + orgVerb}
		conf := mediumConfidence
		if emailNoun, ok := matchAny(kw.EmailNouns, lower, words); ok {
			patterns = append(patterns, "object:"+emailNoun)
			conf = highConfidence
		}
		slots.Query = text
		return Result{
			Intent:          models.IntentOrganizeAction,
			Confidence:      conf,
			MatchedPatterns: patterns,
			Slots:           slots,
		}
	}

	// Tier 4: knowledge/preference nouns, only when no email noun is in play.
	if _, hasEmailNoun := matchAny(kw.EmailNouns, lower, words); !hasEmailNoun {
		if prefNoun, ok := matchAny(kw.PreferenceNouns, lower, words); ok {
			slots.Query = text
			return Result{
				Intent:          models.IntentPreferenceQuery,
				Confidence:      highConfidence,
				MatchedPatterns: []string{"preference:" + prefNoun},
				Slots:           slots,
			}
		}
		if knNoun, ok := matchAny(kw.KnowledgeNouns, lower, words); ok {
			patterns := []string{"knowledge:" + knNoun}
			conf := mediumConfidence
			if fetchVerb, ok := matchAny(kw.FetchVerbs, lower, words); ok {
				patterns = append([]string{"fetch:" + fetchVerb}, patterns...)
				conf = highConfidence
			}
			slots.Query = text
			return Result{
				Intent:          models.IntentKnowledgeQuery,
				Confidence:      conf,
				MatchedPatterns: patterns,
				Slots:           slots,
			}
		}
	}

	// No tier matched with sufficient signal.
	return Result{Intent: models.IntentAmbiguous, Confidence: 0, Slots: Slots{}}
}

// matchAny returns the first keyword present in the utterance. Multi-word
// keywords match as substrings of the lowered text; single words match on
// word boundaries so that "read" does not fire inside "already".
func matchAny(keywords []string, lower string, words []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return kw, true
			}
			continue
		}
		if containsWord(words, kw) {
			return kw, true
		}
	}
	return "", false
}

// containsWord reports whether the token list contains the exact word.
func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

// tokenize splits lowered text into words with surrounding punctuation
// stripped. Inner punctuation (e.g. the @ of an address) is preserved.
func tokenize(lower string) []string {
	fields := strings.Fields(lower)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,;:!?\"'()[]{}")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
