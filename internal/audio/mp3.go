package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// mp3 decoder output is always 16-bit little-endian stereo.
const mp3FrameBytes = 4

// DecodeMP3 decodes an MPEG layer III stream into a mono waveform
// at the stream's native sample rate.
func DecodeMP3(data []byte) (*domain.Waveform, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open mp3 stream: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decode mp3 stream: %w", err)
	}

	frames := len(pcm) / mp3FrameBytes
	samples := make([]float32, frames)
	for i := range frames {
		l := int16(binary.LittleEndian.Uint16(pcm[i*mp3FrameBytes:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*mp3FrameBytes+2:]))
		samples[i] = (float32(l) + float32(r)) / 2 / 32768
	}

	return &domain.Waveform{Samples: samples, SampleRate: dec.SampleRate()}, nil
}
