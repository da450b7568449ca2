package coordinator

import (
	"fmt"
	"time"

	"github.com/voxmail/voxmail/internal/classifier"
	"github.com/voxmail/voxmail/pkg/models"
)

// Annotated is a request that has passed through the classification gate.
// Nothing downstream of the preprocessor accepts a raw string, so no code
// path can reach the orchestrating logic without a classification attached.
type Annotated struct {
	Utterance      models.Utterance
	Classification classifier.Result
	// EnhancedRequest is the original text prefixed with the routing verdict,
	// suitable for handing to a language model as pre-resolved context.
	EnhancedRequest string
}

// Preprocessor is the mandatory synchronous entry gate: every incoming
// message is classified here before any generative reasoning runs.
type Preprocessor struct {
	classifier *classifier.Classifier
}

// NewPreprocessor creates a Preprocessor over the given classifier.
func NewPreprocessor(c *classifier.Classifier) *Preprocessor {
	return &Preprocessor{classifier: c}
}

// Preprocess classifies the raw input and returns the annotated request.
// It never fails: unparseable input is annotated as ambiguous.
func (p *Preprocessor) Preprocess(raw string, source models.Source) Annotated {
	u := models.Utterance{
		Text:       raw,
		Source:     source,
		ReceivedAt: time.Now(),
	}
	res := p.classifier.Classify(u)

	return Annotated{
		Utterance:       u,
		Classification:  res,
		EnhancedRequest: enhance(raw, res),
	}
}

// enhance prefixes the text with the classification verdict.
func enhance(raw string, res classifier.Result) string {
	header := fmt.Sprintf("[intent=%s confidence=%.2f", res.Intent, res.Confidence)
	if res.Slots.Recipient != "" {
		header += " recipient=" + res.Slots.Recipient
	}
	if res.Slots.SubjectHint != "" {
		header += fmt.Sprintf(" subject=%q", res.Slots.SubjectHint)
	}
	header += "]"
	return header + " " + raw
}
