package domain

import (
	"fmt"
	"time"
)

// Waveform is a mono sequence of floating-point samples at a known rate.
type Waveform struct {
	// Samples holds amplitudes, nominally in [-1, 1].
	Samples []float32

	// SampleRate is the number of samples per second. Must be positive.
	SampleRate int
}

// Validate checks the waveform invariants.
func (w *Waveform) Validate() error {
	if w == nil {
		return fmt.Errorf("%w: nil waveform", ErrInvalidInput)
	}
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, w.SampleRate)
	}
	return nil
}

// Len returns the number of samples.
func (w *Waveform) Len() int {
	return len(w.Samples)
}

// Duration returns the playback length of the waveform.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// Slice returns the samples covered by the chunk.
// The result shares memory with the waveform and must not be modified.
func (w *Waveform) Slice(c AudioChunk) []float32 {
	return w.Samples[c.Start:c.End:c.End]
}

// AudioChunk is a contiguous half-open sample range [Start, End) of a waveform.
type AudioChunk struct {
	Index int
	Start int
	End   int
}

// Len returns the number of samples in the chunk.
func (c AudioChunk) Len() int {
	return c.End - c.Start
}

// Offset returns the chunk start time for the given sample rate.
func (c AudioChunk) Offset(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Start) * time.Second / time.Duration(sampleRate)
}
