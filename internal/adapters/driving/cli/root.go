// Package cli implements the sercha-audio command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	envFile   string
	ephemeral bool
)

// Services wired by bootstrap. Tests assign mocks directly.
var (
	settingsService      driving.SettingsService
	transcriptionService driving.TranscriptionService
	chatService          driving.ChatService
	appSettings          *domain.AppSettings
	appMetrics           *metrics.Metrics
	promptWatcher        watcher
	mediaTypes           []string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-audio",
	Short: "Transcribe recordings and ask questions about them",
	Long: `sercha-audio turns WebM and MP3 recordings into transcripts and answers
questions about them, routing each question to a whole-transcript summary or
to the passages most similar to it.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.sercha-audio)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded at startup")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep settings and caches in memory only")
}

// Execute runs the root command and releases wired resources on return.
func Execute(ctx context.Context) error {
	defer closeAll()
	return rootCmd.ExecuteContext(ctx)
}

func persistentPreRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cmd.Annotations[annotationNoBootstrap] == "true" {
		return nil
	}
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	return initSettings()
}
