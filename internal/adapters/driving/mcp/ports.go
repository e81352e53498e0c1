package mcp

import (
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions about transcripts.
	Chat driving.ChatService

	// Transcription turns audio files into text.
	// Optional: without it the transcribe_file tool reports an error.
	Transcription driving.TranscriptionService

	// MediaTypes lists the accepted audio formats.
	MediaTypes []string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
