package voice

// Service is the complete voice collaborator: speech-to-text plus email
// intent extraction.
type Service struct {
	*WhisperTranscriber
	*Extractor
}

// NewService assembles the voice collaborator.
func NewService(transcriber *WhisperTranscriber, extractor *Extractor) *Service {
	return &Service{
		WhisperTranscriber: transcriber,
		Extractor:          extractor,
	}
}
