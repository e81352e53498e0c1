// Package webm decodes WebM/Opus recordings by transcoding them to WAV.
package webm

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/audio"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.AudioNormaliser = (*Normaliser)(nil)

// Normaliser handles browser-recorded WebM audio.
type Normaliser struct {
	transcoder driven.Transcoder
}

// New creates a WebM normaliser backed by the given transcoder.
func New(transcoder driven.Transcoder) *Normaliser {
	return &Normaliser{transcoder: transcoder}
}

// SupportedMediaTypes returns the media types this normaliser handles.
func (n *Normaliser) SupportedMediaTypes() []string {
	return []string{domain.MediaTypeWebM}
}

// Normalise transcodes the container to WAV and decodes it.
func (n *Normaliser) Normalise(ctx context.Context, raw []byte, _ string) (*domain.Waveform, error) {
	if n.transcoder == nil {
		return nil, &domain.TranscodingError{Err: errors.New("no transcoder configured")}
	}

	wavData, err := n.transcoder.Transcode(ctx, raw, "wav")
	if err != nil {
		return nil, err
	}

	w, err := audio.DecodeWAV(wavData)
	if err != nil {
		return nil, &domain.TranscodingError{Err: fmt.Errorf("decode transcoded WAV: %w", err)}
	}
	return w, nil
}
