package coordinator

import "strings"

// Approval-phase phrase tables. These only apply while a session is waiting
// on the human (AWAITING_APPROVAL or ERROR), so they can be generous: "yes"
// in any other state never reaches them.

var affirmatives = []string{
	"yes", "yep", "yeah", "sure", "ok", "okay",
	"approve", "approved", "send it", "send", "go ahead",
	"looks good", "looks great", "perfect", "ship it", "do it",
}

var negatives = []string{
	"no", "nope", "nah", "reject", "rejected", "don't send", "do not send",
}

var cancels = []string{
	"cancel", "never mind", "nevermind", "forget it", "stop", "abort",
}

var retries = []string{
	"retry", "try again", "resend",
}

// normalizePhrase lowers the text and strips terminal punctuation so that
// "Approved." and "approved" compare equal.
func normalizePhrase(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(s, ".!?, ")
}

// isBareAffirmative reports whether the utterance is approval and nothing
// else. "Yes, but make it shorter" is not bare and must not approve.
func isBareAffirmative(text string) bool {
	s := normalizePhrase(text)
	for _, a := range affirmatives {
		if s == a {
			return true
		}
	}
	return false
}

// isCancel reports whether the utterance asks to abandon the workflow.
func isCancel(text string) bool {
	s := normalizePhrase(text)
	for _, c := range cancels {
		if s == c || strings.HasPrefix(s, c+" ") {
			return true
		}
	}
	return false
}

// isRetry reports whether the utterance asks to retry a failed send. A bare
// affirmative in the ERROR state also counts.
func isRetry(text string) bool {
	s := normalizePhrase(text)
	for _, r := range retries {
		if s == r {
			return true
		}
	}
	return isBareAffirmative(text)
}

// parseRejection splits a rejecting utterance into the rejection itself and
// any substantive feedback. ok is false when the utterance is not a
// rejection at all. A rejection with no feedback ("no") is final; one with
// feedback ("no, make it more urgent") requests a revision.
func parseRejection(text string) (feedback string, ok bool) {
	s := normalizePhrase(text)
	for _, n := range negatives {
		if s == n {
			return "", true
		}
		for _, sep := range []string{", ", " - ", ". ", " "} {
			if rest, found := strings.CutPrefix(s, n+sep); found {
				return strings.TrimSpace(rest), true
			}
		}
	}
	return "", false
}
