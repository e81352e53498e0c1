package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported format", &domain.UnsupportedFormatError{MediaType: "audio/ogg"}, nethttp.StatusUnsupportedMediaType},
		{"invalid input", fmt.Errorf("%w: empty audio payload", domain.ErrInvalidInput), nethttp.StatusBadRequest},
		{"empty transcript", &domain.EmptyTranscriptError{}, nethttp.StatusBadRequest},
		{"transcoding", &domain.TranscodingError{Err: errors.New("exit status 1")}, nethttp.StatusUnprocessableEntity},
		{"transcription", &domain.TranscriptionError{Err: errors.New("boom")}, nethttp.StatusBadGateway},
		{"routing", &domain.QueryRoutingError{Stage: domain.RoutingStageQuery, Err: errors.New("boom")}, nethttp.StatusBadGateway},
		{"routing without llm", &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Err: domain.ErrLLMUnavailable}, nethttp.StatusServiceUnavailable},
		{"speech unavailable", domain.ErrSpeechUnavailable, nethttp.StatusServiceUnavailable},
		{"embedding unavailable", fmt.Errorf("build: %w", domain.ErrEmbeddingUnavailable), nethttp.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("transcribe: %w", context.DeadlineExceeded), nethttp.StatusGatewayTimeout},
		{"chunk deadline", &domain.TranscriptionError{ChunkIndex: 3, Err: context.DeadlineExceeded}, nethttp.StatusGatewayTimeout},
		{"routing deadline", &domain.QueryRoutingError{Stage: domain.RoutingStageQuery, Err: context.DeadlineExceeded}, nethttp.StatusGatewayTimeout},
		{"too large", &nethttp.MaxBytesError{Limit: 10}, nethttp.StatusRequestEntityTooLarge},
		{"unknown", errors.New("boom"), nethttp.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusFor_HidesInternalDetail(t *testing.T) {
	_, msg := statusFor(&domain.TranscodingError{Stderr: "/tmp/secret: Invalid data", Err: errors.New("exit status 1")})
	assert.Equal(t, "Could not decode audio", msg)
}
