package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/sercha-audio/internal/audio"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// Ensure TranscriptionService implements the interface.
var _ driving.TranscriptionService = (*TranscriptionService)(nil)

// ProgressFunc is called after each chunk is transcribed.
type ProgressFunc func(done, total int)

type progressKey struct{}

// ContextWithProgress returns a context whose transcription reports
// progress to fn. Only calls made with that context see the callback.
func ContextWithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFrom(ctx context.Context) ProgressFunc {
	fn, _ := ctx.Value(progressKey{}).(ProgressFunc)
	return fn
}

// PlanChunks divides total samples into consecutive chunks of
// floor(d * sampleRate) samples. The last chunk holds the remainder.
// Zero samples yield zero chunks.
func PlanChunks(total, sampleRate int, d time.Duration) ([]domain.AudioChunk, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", domain.ErrInvalidInput, total)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", domain.ErrInvalidInput, sampleRate)
	}

	size := int(math.Floor(d.Seconds() * float64(sampleRate)))
	if size < 1 {
		return nil, fmt.Errorf("%w: chunk duration %s is shorter than one sample", domain.ErrInvalidInput, d)
	}

	count := (total + size - 1) / size
	chunks := make([]domain.AudioChunk, count)
	for i := range chunks {
		chunks[i] = domain.AudioChunk{
			Index: i,
			Start: i * size,
			End:   min((i+1)*size, total),
		}
	}
	return chunks, nil
}

// Transcriber slices a waveform into fixed-duration chunks and transcribes
// each one independently, in order.
type Transcriber struct {
	speech  driven.SpeechToText
	metrics *metrics.Metrics
}

// TranscriberOption configures a Transcriber.
type TranscriberOption func(*Transcriber)

// WithTranscriberMetrics records transcribed chunks.
func WithTranscriberMetrics(m *metrics.Metrics) TranscriberOption {
	return func(t *Transcriber) {
		t.metrics = m
	}
}

// NewTranscriber creates a transcriber backed by a speech-to-text model.
func NewTranscriber(speech driven.SpeechToText, opts ...TranscriberOption) *Transcriber {
	t := &Transcriber{speech: speech}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe returns one transcript segment per chunk. Any chunk failure
// aborts the whole call with a *domain.TranscriptionError.
func (t *Transcriber) Transcribe(
	ctx context.Context,
	w *domain.Waveform,
	chunkDuration time.Duration,
) (*domain.Transcript, error) {
	if t.speech == nil {
		return nil, domain.ErrSpeechUnavailable
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if chunkDuration <= 0 {
		chunkDuration = domain.DefaultChunkDuration
	}

	chunks, err := PlanChunks(w.Len(), w.SampleRate, chunkDuration)
	if err != nil {
		return nil, err
	}

	logger.Debug("transcribing %s of audio in %d chunks of %s", w.Duration(), len(chunks), chunkDuration)

	progress := progressFrom(ctx)
	segments := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, &domain.TranscriptionError{ChunkIndex: c.Index, Err: err}
		}

		text, err := t.transcribeChunk(ctx, w, c)
		if err != nil {
			logger.Error("chunk %d/%d (offset %s): %v", c.Index+1, len(chunks), c.Offset(w.SampleRate), err)
			return nil, &domain.TranscriptionError{ChunkIndex: c.Index, Err: err}
		}
		segments = append(segments, text)

		t.metrics.RecordChunkTranscribed()
		logger.Info("Processed chunk %d/%d", c.Index+1, len(chunks))
		if progress != nil {
			progress(c.Index+1, len(chunks))
		}
	}

	return &domain.Transcript{Segments: segments}, nil
}

func (t *Transcriber) transcribeChunk(ctx context.Context, w *domain.Waveform, c domain.AudioChunk) (string, error) {
	wav, err := audio.EncodeWAV(w.Slice(c), w.SampleRate)
	if err != nil {
		return "", fmt.Errorf("encode chunk: %w", err)
	}
	return t.speech.Transcribe(ctx, wav, fmt.Sprintf("chunk_%d.wav", c.Index))
}

// TranscriptionService normalises an upload and transcribes it.
type TranscriptionService struct {
	normalisers   driven.NormaliserRegistry
	transcriber   *Transcriber
	chunkDuration time.Duration
	metrics       *metrics.Metrics
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(
	normalisers driven.NormaliserRegistry,
	transcriber *Transcriber,
	chunkDuration time.Duration,
	m *metrics.Metrics,
) *TranscriptionService {
	return &TranscriptionService{
		normalisers:   normalisers,
		transcriber:   transcriber,
		chunkDuration: chunkDuration,
		metrics:       m,
	}
}

// Transcribe decodes raw audio of the declared media type and transcribes it.
func (s *TranscriptionService) Transcribe(ctx context.Context, raw []byte, mediaType string) (*domain.Transcript, error) {
	start := time.Now()
	transcript, err := s.transcribe(ctx, raw, mediaType)
	s.metrics.RecordTranscription(time.Since(start), err)
	return transcript, err
}

func (s *TranscriptionService) transcribe(ctx context.Context, raw []byte, mediaType string) (*domain.Transcript, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", domain.ErrInvalidInput)
	}

	w, err := s.normalisers.Normalise(ctx, raw, mediaType)
	if err != nil {
		return nil, err
	}
	logger.Debug("normalised %d bytes of %s to %d samples at %d Hz", len(raw), mediaType, w.Len(), w.SampleRate)

	return s.transcriber.Transcribe(ctx, w, s.chunkDuration)
}
