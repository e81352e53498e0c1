package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the routed answer", func(t *testing.T) {
		chat := &mockChatService{answer: &domain.Answer{Response: "They agreed on Friday.", Tool: domain.ToolVector}}
		server, err := NewServer(&Ports{Chat: chat})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "When?", Transcript: "text"})

		require.NoError(t, err)
		assert.Equal(t, "They agreed on Friday.", output.Response)
		assert.Equal(t, "vector", output.Tool)
		assert.Equal(t, "When?", chat.question)
	})

	t.Run("returns error on chat failure", func(t *testing.T) {
		chat := &mockChatService{err: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Chat: chat})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "When?"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleTranscribe(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "meeting.mp3")
	require.NoError(t, os.WriteFile(path, append([]byte("ID3"), make([]byte, 16)...), 0o600))

	t.Run("detects media type when omitted", func(t *testing.T) {
		tr := &mockTranscriptionService{transcript: &domain.Transcript{Segments: []string{"hello", "there"}}}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Transcription: tr})
		require.NoError(t, err)

		_, output, err := server.handleTranscribe(ctx, nil, TranscribeInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "hello there", output.Transcript)
		assert.Equal(t, domain.MediaTypeMPEG, output.MediaType)
		assert.Equal(t, domain.MediaTypeMPEG, tr.mediaType)
	})

	t.Run("declared media type wins", func(t *testing.T) {
		tr := &mockTranscriptionService{transcript: &domain.Transcript{}}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Transcription: tr})
		require.NoError(t, err)

		_, _, err = server.handleTranscribe(ctx, nil, TranscribeInput{Path: path, MediaType: "audio/webm"})

		require.NoError(t, err)
		assert.Equal(t, "audio/webm", tr.mediaType)
	})

	t.Run("missing file", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{}})
		require.NoError(t, err)

		_, _, err = server.handleTranscribe(ctx, nil, TranscribeInput{Path: filepath.Join(dir, "nope.webm")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("transcription failure", func(t *testing.T) {
		cause := &domain.UnsupportedFormatError{MediaType: "audio/ogg"}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{err: cause}})
		require.NoError(t, err)

		_, _, err = server.handleTranscribe(ctx, nil, TranscribeInput{Path: path, MediaType: "audio/ogg"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		_, _, err = server.handleTranscribe(ctx, nil, TranscribeInput{Path: path})
		assert.Error(t, err)
	})

	t.Run("path required", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{}})
		require.NoError(t, err)

		_, _, err = server.handleTranscribe(ctx, nil, TranscribeInput{})
		assert.Error(t, err)
	})

}
