package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-audio/internal/audio"
)

// AskInput is the input schema for the ask_transcript tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer"`
	Transcript string `json:"transcript" jsonschema:"the transcript text to answer from"`
}

// AskOutput is the output schema for the ask_transcript tool.
type AskOutput struct {
	Response string `json:"response"`
	Tool     string `json:"tool"`
}

// TranscribeInput is the input schema for the transcribe_file tool.
type TranscribeInput struct {
	Path      string `json:"path" jsonschema:"path of a local audio file"`
	MediaType string `json:"media_type,omitempty" jsonschema:"audio media type such as audio/webm (detected when omitted)"`
}

// TranscribeOutput is the output schema for the transcribe_file tool.
type TranscribeOutput struct {
	Transcript string `json:"transcript"`
	MediaType  string `json:"media_type"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_transcript",
		Description: "Answer a question about a recorded conversation from its transcript",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transcribe_file",
		Description: "Transcribe a local WebM or MP3 recording to text",
	}, s.handleTranscribe)
}

// handleAsk handles the ask_transcript tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Ask(ctx, input.Question, input.Transcript)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Response: answer.Response,
		Tool:     answer.Tool.String(),
	}, nil
}

// handleTranscribe handles the transcribe_file tool invocation.
func (s *Server) handleTranscribe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranscribeInput,
) (*mcp.CallToolResult, TranscribeOutput, error) {
	if s.ports.Transcription == nil {
		return nil, TranscribeOutput{}, errors.New("transcription is not configured")
	}
	if input.Path == "" {
		return nil, TranscribeOutput{}, errors.New("path is required")
	}

	raw, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, TranscribeOutput{}, fmt.Errorf("reading audio file: %w", err)
	}

	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = audio.DetectMediaType(raw)
	}

	transcript, err := s.ports.Transcription.Transcribe(ctx, raw, mediaType)
	if err != nil {
		return nil, TranscribeOutput{}, err
	}

	return nil, TranscribeOutput{
		Transcript: transcript.Text(),
		MediaType:  mediaType,
	}, nil
}
