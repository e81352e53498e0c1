package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Tools:
  ask_transcript   Answer a question from a transcript
  transcribe_file  Transcribe a local WebM or MP3 recording

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  sercha-audio mcp

  # HTTP mode (for MCP Inspector, remote access)
  sercha-audio mcp --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "sercha-audio": {
        "command": "/path/to/sercha-audio",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func newMCPServer() (*mcp.Server, error) {
	if err := initPipeline(); err != nil {
		return nil, err
	}
	return mcp.NewServer(&mcp.Ports{
		Chat:          chatService,
		Transcription: transcriptionService,
		MediaTypes:    mediaTypes,
	})
}
