package driven

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for an upload.
// Dispatch is by declared media type only; payload bytes are never sniffed.
type NormaliserRegistry interface {
	// Normalise decodes raw audio using the normaliser registered for mediaType.
	// Unknown types return a *domain.UnsupportedFormatError.
	Normalise(ctx context.Context, raw []byte, mediaType string) (*domain.Waveform, error)

	// Register adds a normaliser to the registry.
	Register(normaliser AudioNormaliser)

	// SupportedMediaTypes returns all media types that can be normalised.
	SupportedMediaTypes() []string
}
