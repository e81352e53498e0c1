package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-audio/internal/audio"
	"github.com/custodia-labs/sercha-audio/internal/core/services"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe a recording",
	Long: `Transcribe a WebM or MP3 recording and print the transcript.

The media type is detected from the file contents unless --type is given.

Examples:
  sercha-audio transcribe meeting.webm
  sercha-audio transcribe call.mp3 --chunk-duration 15s --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().String("type", "", "Media type of the file, e.g. audio/webm")
	transcribeCmd.Flags().Duration("chunk-duration", 0, "Audio slice length sent to the model (default from settings)")
	transcribeCmd.Flags().Bool("json", false, "Print the result as JSON")
	rootCmd.AddCommand(transcribeCmd)
}

type transcribeResult struct {
	File       string   `json:"file"`
	MediaType  string   `json:"media_type"`
	Transcript string   `json:"transcript"`
	Segments   []string `json:"segments"`
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Section("Transcribe " + path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	mediaType, _ := cmd.Flags().GetString("type")
	if mediaType == "" {
		mediaType = audio.DetectMediaType(raw)
		logger.Debug("detected %s as %s", path, mediaType)
	}

	if d, _ := cmd.Flags().GetDuration("chunk-duration"); d != 0 {
		if d < time.Second {
			return fmt.Errorf("chunk duration %s is shorter than one second", d)
		}
		if appSettings != nil {
			appSettings.Transcription.ChunkDuration = d
		}
	}

	if err := initPipeline(); err != nil {
		return err
	}

	ctx := services.ContextWithProgress(cmd.Context(), terminalProgress(os.Stderr))
	transcript, err := transcriptionService.Transcribe(ctx, raw, mediaType)
	if err != nil {
		logger.Error("transcribing %s (%s): %v", path, mediaType, err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(transcribeResult{
			File:       path,
			MediaType:  mediaType,
			Transcript: transcript.Text(),
			Segments:   transcript.Segments,
		})
	}

	cmd.Println(transcript.Text())
	return nil
}
