// Package mpeg decodes MP3 uploads natively.
package mpeg

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/audio"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.AudioNormaliser = (*Normaliser)(nil)

// Normaliser handles MPEG layer III audio.
type Normaliser struct{}

// New creates a new MPEG normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMediaTypes returns the media types this normaliser handles.
// audio/mp3 is non-standard but sent by some browsers.
func (n *Normaliser) SupportedMediaTypes() []string {
	return []string{domain.MediaTypeMPEG, domain.MediaTypeMP3}
}

// Normalise decodes the stream at its native sample rate, averaging to mono.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, _ string) (*domain.Waveform, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", domain.ErrInvalidInput)
	}
	w, err := audio.DecodeMP3(raw)
	if err != nil {
		return nil, &domain.TranscodingError{Err: err}
	}
	return w, nil
}
