// Package ceo is the orchestrating agent: it runs every incoming chat
// message through the classification gate, asks the workflow coordinator for
// a routing decision, and dispatches to the voice, email, and memory
// collaborators. It holds no decision logic of its own.
package ceo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/voxmail/voxmail/internal/chat"
	"github.com/voxmail/voxmail/internal/coordinator"
	"github.com/voxmail/voxmail/internal/email"
	"github.com/voxmail/voxmail/internal/memory"
	"github.com/voxmail/voxmail/internal/voice"
	"github.com/voxmail/voxmail/pkg/models"
)

// VoiceCollaborator is the speech subsystem as the CEO consumes it.
type VoiceCollaborator interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
	ExtractEmailIntent(ctx context.Context, text string) (*voice.EmailIntent, error)
}

// EmailCollaborator is the email subsystem as the CEO consumes it.
type EmailCollaborator interface {
	Fetch(ctx context.Context, query string) ([]email.Message, error)
	Compose(ctx context.Context, req email.ComposeRequest) (*models.Draft, error)
	Revise(ctx context.Context, draft *models.Draft, feedback string) (*models.Draft, error)
	Send(ctx context.Context, draft *models.Draft) (string, error)
	Organize(ctx context.Context, query string) (string, error)
}

// MemoryCollaborator is the memory subsystem as the CEO consumes it.
type MemoryCollaborator interface {
	Search(ctx context.Context, query, userID string) ([]*memory.Memory, error)
	LearnFromOutcome(ctx context.Context, userID string, draft *models.Draft, outcome memory.Outcome, revisionCount int) error
}

// CEO wires the preprocessor, coordinator, and collaborators together.
type CEO struct {
	pre    *coordinator.Preprocessor
	coord  *coordinator.Coordinator
	voice  VoiceCollaborator
	email  EmailCollaborator
	memory MemoryCollaborator
	logger *DebugLogger
}

// Config collects the CEO's dependencies.
type Config struct {
	Preprocessor *coordinator.Preprocessor
	Coordinator  *coordinator.Coordinator
	Voice        VoiceCollaborator
	Email        EmailCollaborator
	Memory       MemoryCollaborator
	Logger       *DebugLogger
}

// New creates a CEO. A nil Logger gets a no-op logger.
func New(cfg Config) *CEO {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}
	return &CEO{
		pre:    cfg.Preprocessor,
		coord:  cfg.Coordinator,
		voice:  cfg.Voice,
		email:  cfg.Email,
		memory: cfg.Memory,
		logger: logger,
	}
}

// HandleMessage processes one incoming chat message to completion and
// returns the assistant's reply. Each conversation's messages must be fed in
// arrival order; concurrency across conversations is safe.
func (c *CEO) HandleMessage(ctx context.Context, msg *chat.Message) (string, error) {
	text := msg.Text
	source := models.SourceText

	if msg.Kind == chat.KindAudio {
		transcribed, err := c.voice.Transcribe(ctx, bytes.NewReader(msg.Audio), msg.Filename)
		if err != nil {
			return "", fmt.Errorf("transcribe message: %w", err)
		}
		text = transcribed
		source = models.SourceVoice
		c.logger.Log("transcribed %q (conversation %s)", text, msg.ConversationID)
	}

	// Classification is a mandatory gate: nothing reaches the coordinator
	// without it.
	ann := c.pre.Preprocess(text, source)
	c.logger.Log("classified intent=%s confidence=%.2f (conversation %s)",
		ann.Classification.Intent, ann.Classification.Confidence, msg.ConversationID)

	decision, err := c.coord.Decide(ann.Classification, ann.Utterance, msg.ConversationID)
	if err != nil {
		return "", err
	}

	return c.dispatch(ctx, decision, ann, 0)
}

// maxDispatchDepth bounds decision chaining (compose, then send, then
// completion); legitimate chains are short.
const maxDispatchDepth = 5

func (c *CEO) dispatch(ctx context.Context, d *coordinator.RoutingDecision, ann coordinator.Annotated, depth int) (string, error) {
	if depth > maxDispatchDepth {
		return "", fmt.Errorf("dispatch chain too deep for session %s", d.SessionID)
	}
	c.logger.Log("dispatch target=%s state=%s (session %s)", d.Target, d.State, d.SessionID)

	switch d.Target {
	case coordinator.TargetNone:
		return d.Message, nil

	case coordinator.TargetVoice:
		return c.dispatchVoice(ctx, d, ann, depth)

	case coordinator.TargetEmail:
		return c.dispatchEmail(ctx, d, ann, depth)

	case coordinator.TargetMemory:
		return c.dispatchMemory(ctx, d)

	default:
		return "", fmt.Errorf("unknown dispatch target %q", d.Target)
	}
}

func (c *CEO) dispatchVoice(ctx context.Context, d *coordinator.RoutingDecision, ann coordinator.Annotated, depth int) (string, error) {
	intent, err := c.voice.ExtractEmailIntent(ctx, ann.Utterance.Text)
	if err != nil {
		return "", fmt.Errorf("gather email content: %w", err)
	}

	recipient := intent.Recipient
	if recipient == "" {
		recipient = d.Instruction.Recipient
	}
	subject := intent.Subject
	if subject == "" {
		subject = d.Instruction.Subject
	}

	draft, err := c.email.Compose(ctx, email.ComposeRequest{
		UserID:      d.SessionID,
		Recipient:   recipient,
		Subject:     subject,
		KeyPoints:   intent.KeyPoints,
		Tone:        intent.Tone,
		Instruction: ann.Utterance.Text,
	})
	if err != nil {
		return "", fmt.Errorf("compose draft: %w", err)
	}

	next, err := c.coord.AttachDraft(d.SessionID, draft)
	if err != nil {
		return "", err
	}
	return c.dispatch(ctx, next, ann, depth+1)
}

func (c *CEO) dispatchEmail(ctx context.Context, d *coordinator.RoutingDecision, ann coordinator.Annotated, depth int) (string, error) {
	inst := d.Instruction

	switch inst.Op {
	case coordinator.OpFetch:
		msgs, err := c.email.Fetch(ctx, inst.Query)
		if err != nil {
			return "", fmt.Errorf("fetch email: %w", err)
		}
		return formatMessages(msgs), nil

	case coordinator.OpOrganize:
		result, err := c.email.Organize(ctx, inst.Query)
		if err != nil {
			return "", fmt.Errorf("organize email: %w", err)
		}
		return result, nil

	case coordinator.OpCompose:
		draft, err := c.email.Compose(ctx, email.ComposeRequest{
			UserID:      d.SessionID,
			Recipient:   inst.Recipient,
			Subject:     inst.Subject,
			Instruction: inst.Query,
		})
		if err != nil {
			return "", fmt.Errorf("compose draft: %w", err)
		}
		next, err := c.coord.AttachDraft(d.SessionID, draft)
		if err != nil {
			return "", err
		}
		return c.dispatch(ctx, next, ann, depth+1)

	case coordinator.OpRevise:
		draft, err := c.email.Revise(ctx, inst.Draft, inst.Feedback)
		if err != nil {
			return "", fmt.Errorf("revise draft: %w", err)
		}
		next, err := c.coord.AttachDraft(d.SessionID, draft)
		if err != nil {
			return "", err
		}
		return c.dispatch(ctx, next, ann, depth+1)

	case coordinator.OpSend:
		return c.dispatchSend(ctx, d, ann, depth)

	default:
		return "", fmt.Errorf("unknown email op %q", inst.Op)
	}
}

func (c *CEO) dispatchSend(ctx context.Context, d *coordinator.RoutingDecision, ann coordinator.Annotated, depth int) (string, error) {
	draft := d.Instruction.Draft
	_, sendErr := c.email.Send(ctx, draft)

	next, err := c.coord.CompleteSend(d.SessionID, sendErr)
	if err != nil {
		return "", err
	}

	if sendErr == nil {
		c.logger.Log("sent draft %s (session %s)", draft.ID, d.SessionID)
		if err := c.memory.LearnFromOutcome(ctx, d.SessionID, draft, memory.OutcomeSent, 0); err != nil {
			// Learning is best-effort; the email is already out.
			c.logger.Log("learn from outcome failed: %v", err)
		}
	} else {
		c.logger.Log("send failed for session %s: %v", d.SessionID, sendErr)
	}

	return c.dispatch(ctx, next, ann, depth+1)
}

func (c *CEO) dispatchMemory(ctx context.Context, d *coordinator.RoutingDecision) (string, error) {
	memories, err := c.memory.Search(ctx, d.Instruction.Query, d.SessionID)
	if err != nil {
		return "", fmt.Errorf("search memory: %w", err)
	}
	return formatMemories(memories), nil
}

func formatMessages(msgs []email.Message) string {
	if len(msgs) == 0 {
		return "No matching emails found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d email(s):\n", len(msgs))
	for i, m := range msgs {
		if i >= 10 {
			fmt.Fprintf(&b, "...and %d more.\n", len(msgs)-i)
			break
		}
		marker := ""
		if m.Unread {
			marker = " (unread)"
		}
		fmt.Fprintf(&b, "%d. From %s: %s%s\n", i+1, m.From, m.Subject, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMemories(memories []*memory.Memory) string {
	if len(memories) == 0 {
		return "I don't have anything stored about that."
	}

	var b strings.Builder
	b.WriteString("Here's what I know:\n")
	for i, m := range memories {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
