package driving

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// TranscriptionService turns an uploaded recording into text.
type TranscriptionService interface {
	// Transcribe normalises raw audio of the declared media type and
	// transcribes it chunk by chunk.
	Transcribe(ctx context.Context, raw []byte, mediaType string) (*domain.Transcript, error)
}
