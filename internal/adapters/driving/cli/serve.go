package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/custodia-labs/sercha-audio/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Routes:
  POST /upload   multipart form with an "audio" file part (audio/webm or audio/mpeg)
  POST /chat     JSON {"question": ..., "transcript": ...}
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics

Prompt templates are reloaded when their files change. With --mcp the MCP
server is also served over HTTP on --mcp-addr.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings, or SERCHA_AUDIO_ADDR)")
	serveCmd.Flags().Bool("mcp", false, "Also serve MCP over HTTP")
	serveCmd.Flags().String("mcp-addr", ":5005", "MCP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.SetTimestamps(true)

	if err := initPipeline(); err != nil {
		return err
	}

	cfg := httpapi.ConfigFromSettings(appSettings.Server)
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	api, err := httpapi.NewServer(&httpapi.Ports{
		Chat:          chatService,
		Transcription: transcriptionService,
		Metrics:       appMetrics,
	}, cfg)
	if err != nil {
		return err
	}

	withMCP, _ := cmd.Flags().GetBool("mcp")
	mcpAddr, _ := cmd.Flags().GetString("mcp-addr")
	var mcpServer *mcp.Server
	if withMCP {
		if mcpServer, err = newMCPServer(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return api.Run(gctx) })

	if mcpServer != nil {
		logger.Info("MCP listening on %s", mcpAddr)
		g.Go(func() error { return mcpServer.RunHTTP(gctx, mcpAddr) })
	}

	if promptWatcher != nil {
		g.Go(func() error {
			if err := promptWatcher.Watch(gctx); err != nil {
				logger.Warn("prompt reload disabled: %v", err)
			}
			return nil
		})
	}

	cmd.PrintErrf("Listening on %s\n", cfg.Addr)
	return g.Wait()
}
