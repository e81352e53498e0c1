package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/services"
)

type mockChatService struct {
	answer     *domain.Answer
	err        error
	question   string
	transcript string
}

func (m *mockChatService) Ask(_ context.Context, question, transcript string) (*domain.Answer, error) {
	m.question = question
	m.transcript = transcript
	return m.answer, m.err
}

type mockTranscriptionService struct {
	transcript *domain.Transcript
	err        error
	mediaType  string
}

func (m *mockTranscriptionService) Transcribe(_ context.Context, _ []byte, mediaType string) (*domain.Transcript, error) {
	m.mediaType = mediaType
	return m.transcript, m.err
}

// withServices installs test services and restores the package state
// when the test ends.
func withServices(t *testing.T, chat *mockChatService, transcription *mockTranscriptionService, seed map[string]any) {
	t.Helper()

	prevSettings, prevChat, prevTranscription, prevApp := settingsService, chatService, transcriptionService, appSettings
	t.Cleanup(func() {
		settingsService, chatService, transcriptionService, appSettings = prevSettings, prevChat, prevTranscription, prevApp
	})

	settingsService = services.NewSettingsService(memory.NewConfigStore(seed), nil)
	chatService = chat
	transcriptionService = transcription
	appSettings = nil
}

// execute runs the root command with args and returns combined stdout.
// Flag values are reset afterwards so tests do not leak into each other.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
