package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/voxmail/voxmail/internal/llm"
	"github.com/voxmail/voxmail/pkg/models"
)

// promptRunner is the slice of the LLM runner the composer needs.
type promptRunner interface {
	RunWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ promptRunner = (*llm.Runner)(nil)

// StyleSource supplies the user's learned writing-style profile. The memory
// store implements it; a nil source composes without style guidance.
type StyleSource interface {
	StyleProfile(ctx context.Context, userID string) (string, error)
}

// ComposeRequest carries everything the composer needs for a first draft.
type ComposeRequest struct {
	UserID      string
	Recipient   string
	Subject     string
	KeyPoints   []string
	Tone        string
	Instruction string
}

const composeSystemPrompt = `You write emails on behalf of the user, in the user's own voice.
Output ONLY JSON, no markdown:
{
  "recipient": "<address or name>",
  "subject": "<subject line>",
  "body": "<full email body>"
}
Write naturally. Never mention that you are an assistant. Never add content
the user did not ask for.`

// Composer turns gathered email parameters into drafts and revises them
// against user feedback.
type Composer struct {
	runner promptRunner
	styles StyleSource
}

// NewComposer creates a Composer. styles may be nil.
func NewComposer(runner promptRunner, styles StyleSource) *Composer {
	return &Composer{runner: runner, styles: styles}
}

// Compose produces the first draft for a request.
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) (*models.Draft, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an email to %s.\n", orUnknown(req.Recipient))
	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	}
	if len(req.KeyPoints) > 0 {
		b.WriteString("It must cover:\n")
		for _, p := range req.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	}
	if req.Instruction != "" {
		fmt.Fprintf(&b, "Original request: %s\n", req.Instruction)
	}
	if style := c.styleFor(ctx, req.UserID); style != "" {
		fmt.Fprintf(&b, "\nMatch this writing style:\n%s\n", style)
	}

	return c.runDraft(ctx, b.String(), req.Recipient)
}

// Revise produces a new draft from an existing one and the user's feedback.
func (c *Composer) Revise(ctx context.Context, draft *models.Draft, feedback string) (*models.Draft, error) {
	if draft == nil {
		return nil, fmt.Errorf("no draft to revise")
	}

	prompt := fmt.Sprintf(`Revise this email draft.

Recipient: %s
Subject: %s

%s

Requested change: %s`, draft.Recipient, draft.Subject, draft.Body, feedback)

	revised, err := c.runDraft(ctx, prompt, draft.Recipient)
	if err != nil {
		return nil, err
	}
	// The revision keeps the draft identity and any attachments.
	revised.ID = draft.ID
	revised.AttachmentsRef = draft.AttachmentsRef
	if revised.Recipient == "" {
		revised.Recipient = draft.Recipient
	}
	return revised, nil
}

func (c *Composer) runDraft(ctx context.Context, prompt, fallbackRecipient string) (*models.Draft, error) {
	raw, err := c.runner.RunWithSystem(ctx, composeSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("compose draft: %w", err)
	}

	var out struct {
		Recipient string `json:"recipient"`
		Subject   string `json:"subject"`
		Body      string `json:"body"`
	}
	if err := llm.ParseJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("compose draft: %w", err)
	}
	if strings.TrimSpace(out.Body) == "" {
		return nil, fmt.Errorf("compose draft: empty body returned")
	}

	recipient := out.Recipient
	if recipient == "" {
		recipient = fallbackRecipient
	}

	return &models.Draft{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Subject:   out.Subject,
		Body:      out.Body,
	}, nil
}

func (c *Composer) styleFor(ctx context.Context, userID string) string {
	if c.styles == nil || userID == "" {
		return ""
	}
	style, err := c.styles.StyleProfile(ctx, userID)
	if err != nil {
		// Style guidance is best-effort; a draft without it is still valid.
		return ""
	}
	return style
}

func orUnknown(s string) string {
	if s == "" {
		return "the recipient the user described"
	}
	return s
}
