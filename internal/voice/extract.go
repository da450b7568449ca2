package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxmail/voxmail/internal/llm"
)

// EmailIntent is the structured content extracted from a spoken email
// request, ready for the composer.
type EmailIntent struct {
	Recipient string   `json:"recipient"`
	Subject   string   `json:"subject"`
	KeyPoints []string `json:"key_points"`
	Tone      string   `json:"tone"`
}

const extractSystemPrompt = `You extract email parameters from transcribed speech.
Your ONLY job is to convert the utterance into minimal structured JSON.

RULES:
1. Do NOT converse.
2. Do NOT write the email itself.
3. Output ONLY JSON. No markdown.
4. Never invent a recipient, subject, or key point that was not spoken.

OUTPUT FORMAT:
{
  "recipient": "<name or address, or empty string>",
  "subject": "<short subject line, or empty string>",
  "key_points": ["<each point the speaker wants covered>"],
  "tone": "<formal|casual|urgent|friendly, or empty string if unstated>"
}`

// promptRunner is the slice of the LLM runner the extractor needs.
type promptRunner interface {
	RunWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ promptRunner = (*llm.Runner)(nil)

// Extractor pulls structured email parameters out of free-form speech.
type Extractor struct {
	runner promptRunner
}

// NewExtractor creates an Extractor over the given runner.
func NewExtractor(runner promptRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractEmailIntent converts transcribed speech into email parameters.
func (e *Extractor) ExtractEmailIntent(ctx context.Context, text string) (*EmailIntent, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty utterance")
	}

	raw, err := e.runner.RunWithSystem(ctx, extractSystemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("extract email intent: %w", err)
	}

	var intent EmailIntent
	if err := llm.ParseJSON(raw, &intent); err != nil {
		return nil, fmt.Errorf("extract email intent: %w", err)
	}
	return &intent, nil
}
