package driven

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// AudioNormaliser decodes an uploaded recording into a mono waveform.
// Each normaliser handles specific media types (e.g., WebM, MPEG).
type AudioNormaliser interface {
	// SupportedMediaTypes returns the media types this normaliser handles.
	SupportedMediaTypes() []string

	// Normalise decodes raw bytes into a waveform at the source's native rate.
	Normalise(ctx context.Context, raw []byte, mediaType string) (*domain.Waveform, error)
}

// Transcoder converts container formats to WAV through an external tool.
type Transcoder interface {
	// Transcode converts raw input to the named output format.
	// Failures return a *domain.TranscodingError carrying the tool's diagnostics.
	Transcode(ctx context.Context, raw []byte, format string) ([]byte, error)
}
