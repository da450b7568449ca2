// Package voice wraps speech-to-text and email-intent extraction for
// voice-originated messages.
package voice

import (
	"context"
	"fmt"
	"io"

	openai "github.com/openai/openai-go/v3"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// WhisperTranscriber transcribes audio through the OpenAI Whisper API.
type WhisperTranscriber struct {
	client openai.Client
	model  openai.AudioModel
}

// NewWhisperTranscriber creates a transcriber using the given OpenAI client.
func NewWhisperTranscriber(client openai.Client) *WhisperTranscriber {
	return &WhisperTranscriber{
		client: client,
		model:  openai.AudioModelWhisper1,
	}
}

// Transcribe uploads the audio and returns the transcribed text.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: w.model,
		File:  openai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return resp.Text, nil
}
