package driven

import "context"

// SpeechToText transcribes a self-contained audio file.
//
// Implementations may include:
//   - OpenAI Whisper API
//   - OpenAI-compatible self-hosted whisper servers
type SpeechToText interface {
	// Transcribe returns the text spoken in the WAV-encoded audio.
	// The filename hints the container format to the remote service.
	Transcribe(ctx context.Context, wav []byte, filename string) (string, error)

	// ModelName returns the name of the transcription model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
