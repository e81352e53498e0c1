package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-audio/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about a transcript",
	Long: `Answer a question about a transcript.

The transcript is read from a file, or from stdin when --transcript is "-".

Examples:
  sercha-audio ask "What did they decide?" --transcript meeting.txt
  sercha-audio transcribe call.mp3 | sercha-audio ask "Summarise the call" --transcript -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("transcript", "t", "", "Transcript file, or - for stdin (required)")
	_ = askCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	source, _ := cmd.Flags().GetString("transcript")
	transcript, err := readTranscript(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	if err := initPipeline(); err != nil {
		return err
	}

	answer, err := chatService.Ask(cmd.Context(), question, transcript)
	if err != nil {
		logger.Error("answering %q: %v", question, err)
		return err
	}

	logger.Debug("answered with the %s tool", answer.Tool)
	cmd.Println(answer.Response)
	return nil
}

func readTranscript(stdin io.Reader, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch source {
	case "":
		return "", errors.New("--transcript is required")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}
