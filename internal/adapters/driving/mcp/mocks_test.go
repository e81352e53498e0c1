package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockChatService) Ask(_ context.Context, question, _ string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockTranscriptionService is a mock implementation of driving.TranscriptionService.
type mockTranscriptionService struct {
	transcript *domain.Transcript
	err        error
	mediaType  string
	raw        []byte
}

func (m *mockTranscriptionService) Transcribe(_ context.Context, raw []byte, mediaType string) (*domain.Transcript, error) {
	m.raw = raw
	m.mediaType = mediaType
	return m.transcript, m.err
}
