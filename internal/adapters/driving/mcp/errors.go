// Package mcp provides an MCP (Model Context Protocol) server adapter for Sercha Audio.
// It lets AI assistants transcribe local recordings and ask questions about transcripts.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
