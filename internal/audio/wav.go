package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// EncodeBitDepth is the PCM sample width written by EncodeWAV.
const EncodeBitDepth = 16

const wavFormatPCM = 1

// ErrInvalidWAV indicates the payload is not a decodable WAV file.
var ErrInvalidWAV = errors.New("invalid WAV data")

// DecodeWAV decodes a PCM WAV file into a mono waveform.
// Multi-channel input is averaged to mono. Files produced by a streaming
// writer, whose RIFF and data sizes are unset, are accepted.
func DecodeWAV(data []byte) (*domain.Waveform, error) {
	data = fixStreamedSizes(data)

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode PCM: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing sample rate", ErrInvalidWAV)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}

	return &domain.Waveform{
		Samples:    downmixInts(buf.Data, channels, bitDepth),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// EncodeWAV writes mono samples as a self-contained 16-bit PCM WAV file.
// Samples outside [-1, 1] are clipped.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", domain.ErrInvalidInput)
	}

	out := &memFile{}
	enc := wav.NewEncoder(out, sampleRate, EncodeBitDepth, 1, wavFormatPCM)

	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = floatToPCM16(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: EncodeBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalise WAV: %w", err)
	}
	return out.Bytes(), nil
}

func floatToPCM16(s float32) int {
	switch {
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	return int(s * 32767)
}

// downmixInts averages interleaved integer frames into normalised mono samples.
func downmixInts(data []int, channels, bitDepth int) []float32 {
	scale := float32(int64(1) << (bitDepth - 1))
	unsigned := bitDepth == 8

	frames := len(data) / channels
	out := make([]float32, frames)
	for f := range frames {
		var sum float32
		for c := range channels {
			v := data[f*channels+c]
			if unsigned {
				v -= 128
			}
			sum += float32(v) / scale
		}
		out[f] = sum / float32(channels)
	}
	return out
}

const unsetSize = 0xFFFFFFFF

// fixStreamedSizes rewrites the RIFF and data chunk sizes when a writer
// streamed to a non-seekable output left them unset or too large.
// The input is returned unchanged when it already carries valid sizes.
func fixStreamedSizes(data []byte) []byte {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return data
	}

	var fixed []byte
	ensureCopy := func() {
		if fixed == nil {
			fixed = append([]byte(nil), data...)
		}
	}

	if riff := binary.LittleEndian.Uint32(data[4:8]); riff == unsetSize || riff == 0 || int64(riff) > int64(len(data)-8) {
		ensureCopy()
		binary.LittleEndian.PutUint32(fixed[4:8], uint32(len(data)-8))
	}

	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		remaining := len(data) - off - 8
		if id == "data" {
			if size == unsetSize || size == 0 || int64(size) > int64(remaining) {
				ensureCopy()
				binary.LittleEndian.PutUint32(fixed[off+4:off+8], uint32(remaining))
			}
			break
		}
		next := int64(off) + 8 + int64(size) + int64(size&1)
		if next > int64(len(data)) {
			break
		}
		off = int(next)
	}

	if fixed == nil {
		return data
	}
	return fixed
}
