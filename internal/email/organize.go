package email

import (
	"context"
	"fmt"
	"strings"
)

// maxOrganizeBatch caps how many messages one organize command touches.
const maxOrganizeBatch = 5

// Organizer maps free-form organization commands ("archive the newsletter",
// "mark the vendor emails read", "label the invoice as urgent") onto gateway
// actions against the matching messages.
type Organizer struct {
	gw *Gateway
}

// NewOrganizer creates an Organizer over the gateway.
func NewOrganizer(gw *Gateway) *Organizer {
	return &Organizer{gw: gw}
}

// Apply executes one organization command and returns a user-facing summary.
func (o *Organizer) Apply(ctx context.Context, query string) (string, error) {
	cmd, ok := parseOrganize(query)
	if !ok {
		return "", fmt.Errorf("no organization action recognized in %q", query)
	}

	msgs, err := o.gw.Fetch(ctx, cmd.search)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "No matching emails found.", nil
	}
	if len(msgs) > maxOrganizeBatch {
		msgs = msgs[:maxOrganizeBatch]
	}

	applied := 0
	for _, m := range msgs {
		var err error
		switch cmd.verb {
		case "archive":
			err = o.gw.Archive(ctx, m.ID)
		case "delete":
			err = o.gw.Delete(ctx, m.ID)
		case "read":
			err = o.gw.MarkRead(ctx, m.ID, true)
		case "unread":
			err = o.gw.MarkRead(ctx, m.ID, false)
		case "label":
			err = o.gw.Label(ctx, m.ID, cmd.label)
		}
		if err != nil {
			return "", fmt.Errorf("apply %s to message %s: %w", cmd.verb, m.ID, err)
		}
		applied++
	}

	return fmt.Sprintf("Done, %s %d message(s).", pastTense(cmd.verb), applied), nil
}

func pastTense(verb string) string {
	switch verb {
	case "archive":
		return "archived"
	case "delete":
		return "deleted"
	case "read":
		return "marked read"
	case "unread":
		return "marked unread"
	case "label":
		return "labeled"
	default:
		return verb
	}
}

type organizeCommand struct {
	verb   string // archive, delete, read, unread, label
	label  string // for verb "label"
	search string // query for the messages to act on
}

// parseOrganize splits an utterance into the action and the message search.
func parseOrganize(query string) (organizeCommand, bool) {
	words := strings.Fields(strings.ToLower(query))
	var cmd organizeCommand
	var rest []string

	for i := 0; i < len(words); i++ {
		w := strings.Trim(words[i], ".,!?")
		switch w {
		case "archive", "delete":
			if cmd.verb == "" {
				cmd.verb = w
				continue
			}
		case "star", "flag":
			if cmd.verb == "" {
				cmd.verb = "label"
				cmd.label = w + "ged"
				if w == "star" {
					cmd.label = "starred"
				}
				continue
			}
		case "mark":
			// Resolved by a later "read"/"unread" token.
			if cmd.verb == "" {
				cmd.verb = "mark"
				continue
			}
		case "read", "unread":
			if cmd.verb == "mark" {
				cmd.verb = w
				continue
			}
		case "label":
			if cmd.verb == "" {
				cmd.verb = "label"
				continue
			}
		case "as":
			// "label ... as urgent": the next word names the label.
			if cmd.verb == "label" && cmd.label == "" && i+1 < len(words) {
				cmd.label = strings.Trim(words[i+1], ".,!?")
				i++
				continue
			}
		}
		rest = append(rest, w)
	}

	if cmd.verb == "" || cmd.verb == "mark" {
		return organizeCommand{}, false
	}
	if cmd.verb == "label" && cmd.label == "" {
		// "label the invoice urgent": take the trailing word as the label.
		if len(rest) > 0 {
			cmd.label = rest[len(rest)-1]
			rest = rest[:len(rest)-1]
		} else {
			return organizeCommand{}, false
		}
	}

	cmd.search = strings.Join(stripFiller(rest), " ")
	return cmd, true
}

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "all": true,
	"email": true, "emails": true, "message": true, "messages": true,
	"mail": true, "it": true, "them": true, "please": true,
}

func stripFiller(words []string) []string {
	var out []string
	for _, w := range words {
		if !fillerWords[w] {
			out = append(out, w)
		}
	}
	return out
}
