package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrTranscoding", ErrTranscoding},
		{"ErrTranscription", ErrTranscription},
		{"ErrEmptyTranscript", ErrEmptyTranscript},
		{"ErrQueryRouting", ErrQueryRouting},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrSpeechUnavailable", ErrSpeechUnavailable},
		{"ErrNotFound", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestUnsupportedFormatError(t *testing.T) {
	err := fmt.Errorf("normalise: %w", &UnsupportedFormatError{MediaType: "audio/ogg"})

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, ErrTranscoding)
	assert.Contains(t, err.Error(), `"audio/ogg"`)

	var ufe *UnsupportedFormatError
	assert.True(t, errors.As(err, &ufe))
	assert.Equal(t, "audio/ogg", ufe.MediaType)
}

func TestTranscodingError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &TranscodingError{
		Stderr: "ffmpeg version 6\npipe:0: Invalid data found when processing input\n",
		Err:    cause,
	}

	assert.ErrorIs(t, err, ErrTranscoding)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transcoding failed: exit status 1: pipe:0: Invalid data found when processing input", err.Error())
}

func TestTranscodingError_NoStderr(t *testing.T) {
	err := &TranscodingError{Err: context.Canceled}

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "transcoding failed: context canceled", err.Error())
}

func TestTranscriptionError(t *testing.T) {
	cause := errors.New("429 too many requests")
	err := fmt.Errorf("transcribe: %w", &TranscriptionError{ChunkIndex: 2, Err: cause})

	assert.ErrorIs(t, err, ErrTranscription)
	assert.ErrorIs(t, err, cause)

	var te *TranscriptionError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, 2, te.ChunkIndex)
	assert.Contains(t, err.Error(), "chunk 2")
}

func TestEmptyTranscriptError(t *testing.T) {
	err := &EmptyTranscriptError{}

	assert.ErrorIs(t, err, ErrEmptyTranscript)
	assert.Equal(t, "empty transcript", err.Error())
}

func TestQueryRoutingError(t *testing.T) {
	tests := []struct {
		name string
		err  *QueryRoutingError
		want string
	}{
		{
			name: "select with choice",
			err:  &QueryRoutingError{Stage: RoutingStageSelect, Choice: 5, Err: errors.New("out of range")},
			want: "query routing failed at select (choice 5): out of range",
		},
		{
			name: "select without choice",
			err:  &QueryRoutingError{Stage: RoutingStageSelect, Err: errors.New("no JSON")},
			want: "query routing failed at select: no JSON",
		},
		{
			name: "query",
			err:  &QueryRoutingError{Stage: RoutingStageQuery, Choice: 1, Err: errors.New("llm down")},
			want: "query routing failed at query: llm down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrQueryRouting)
		})
	}
}
