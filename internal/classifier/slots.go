package classifier

import (
	"regexp"
	"strings"
)

// emailPattern matches a bare email address anywhere in the utterance.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// recipientStopWords end a spoken recipient phrase ("to John about the
// meeting" stops at "about").
var recipientStopWords = map[string]bool{
	"about":      true,
	"regarding":  true,
	"concerning": true,
	"saying":     true,
	"telling":    true,
	"asking":     true,
	"that":       true,
	"and":        true,
}

// subjectStopWords end a subject-hint phrase.
var subjectStopWords = map[string]bool{
	"saying":  true,
	"telling": true,
	"asking":  true,
	"and":     true,
}

// maxRecipientWords bounds how many words a spoken recipient name may span.
const maxRecipientWords = 3

// extractSlots pulls recipient and subject-hint slots out of the utterance.
// The query slot is filled by the classifier for read-style intents.
func extractSlots(text string, _ []string) Slots {
	var slots Slots
	toks := tokenizeCased(text)

	if addr := emailPattern.FindString(text); addr != "" {
		slots.Recipient = addr
	} else {
		slots.Recipient = recipientAfterTo(toks)
	}

	slots.SubjectHint = subjectHint(toks)
	return slots
}

// recipientAfterTo captures the words following a recipient-indicating "to",
// stopping at subject markers and punctuation-trimmed stop words.
func recipientAfterTo(toks []string) string {
	for i, tok := range toks {
		if strings.ToLower(tok) != "to" || i+1 >= len(toks) {
			continue
		}
		var name []string
		for _, t := range toks[i+1:] {
			lw := strings.ToLower(t)
			if recipientStopWords[lw] || len(name) == maxRecipientWords {
				break
			}
			// Skip articles between "to" and the name ("to the team lead").
			if len(name) == 0 && (lw == "the" || lw == "a" || lw == "an" || lw == "my") {
				continue
			}
			name = append(name, t)
		}
		if len(name) > 0 {
			return strings.Join(name, " ")
		}
	}
	return ""
}

// subjectHint captures the phrase following "about"/"regarding"/"concerning".
func subjectHint(toks []string) string {
	for i, tok := range toks {
		lw := strings.ToLower(tok)
		if lw != "about" && lw != "regarding" && lw != "concerning" {
			continue
		}
		var hint []string
		for _, t := range toks[i+1:] {
			if subjectStopWords[strings.ToLower(t)] {
				break
			}
			hint = append(hint, t)
		}
		if len(hint) > 0 {
			return strings.Join(hint, " ")
		}
	}
	return ""
}

// tokenizeCased splits text into tokens with surrounding punctuation trimmed
// but original casing preserved.
func tokenizeCased(text string) []string {
	fields := strings.Fields(text)
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, ".,;:!?\"'()[]{}")
		if t != "" {
			toks = append(toks, t)
		}
	}
	return toks
}
