package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the speech-to-text, LLM and embedding providers.

Use subcommands to configure a single provider or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Configure every provider step by step",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSteps(cmd, speechStep, llmStep, embeddingStep)
	},
}

var settingsSpeechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Configure speech-to-text provider",
	Long: `Configure the speech-to-text provider used to transcribe uploads.

Any OpenAI-compatible transcription endpoint works. Leave the API key empty
and set a base URL to use a self-hosted whisper server.`,
	RunE: func(cmd *cobra.Command, _ []string) error { return runSteps(cmd, speechStep) },
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to route and answer questions.`,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runSteps(cmd, llmStep) },
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to retrieve transcript passages.`,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runSteps(cmd, embeddingStep) },
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsWizardCmd, settingsSpeechCmd, settingsLLMCmd, settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

// field is one "Label: value" line of settings output. Empty values are skipped.
type field struct {
	label, value string
}

func printSection(cmd *cobra.Command, title string, fields ...field) {
	cmd.Printf("[%s]\n", title)
	for _, f := range fields {
		if f.value != "" {
			cmd.Printf("  %s: %s\n", f.label, f.value)
		}
	}
	cmd.Println()
}

func status(configured bool) string {
	if configured {
		return "configured"
	}
	return "not configured"
}

// keyField masks a set key and flags a missing one only when it is needed.
func keyField(key string, required bool) field {
	switch {
	case key != "":
		return field{"API Key", maskAPIKey(key)}
	case required:
		return field{"API Key", "(not set)"}
	}
	return field{}
}

func localURL(p domain.AIProvider, url string) string {
	if p.IsLocal() {
		return url
	}
	return ""
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	printSection(cmd, "Speech",
		field{"Provider", s.Speech.Provider.Description()},
		field{"Model", s.Speech.Model},
		field{"Base URL", s.Speech.BaseURL},
		keyField(s.Speech.APIKey, s.Speech.BaseURL == ""),
		field{"Language", s.Speech.Language},
		field{"Status", status(s.Speech.IsConfigured())},
	)
	printSection(cmd, "LLM",
		field{"Provider", s.LLM.Provider.Description()},
		field{"Model", s.LLM.Model},
		field{"Base URL", localURL(s.LLM.Provider, s.LLM.BaseURL)},
		keyField(s.LLM.APIKey, s.LLM.Provider.RequiresAPIKey()),
		field{"Status", status(s.LLM.IsConfigured())},
	)
	printSection(cmd, "Embedding",
		field{"Provider", s.Embedding.Provider.Description()},
		field{"Model", s.Embedding.Model},
		field{"Base URL", localURL(s.Embedding.Provider, s.Embedding.BaseURL)},
		keyField(s.Embedding.APIKey, s.Embedding.Provider.RequiresAPIKey()),
		field{"Status", status(s.Embedding.IsConfigured())},
	)
	printSection(cmd, "Transcription",
		field{"Chunk duration", s.Transcription.ChunkDuration.String()},
		field{"FFmpeg", s.Transcription.FFmpegPath},
	)
	printSection(cmd, "Index",
		field{"Chunk size", fmt.Sprintf("%d tokens (overlap %d)", s.Index.ChunkSize, s.Index.ChunkOverlap)},
		field{"Similarity top-k", strconv.Itoa(s.Index.SimilarityTopK)},
		field{"Context window", fmt.Sprintf("%d (output %d)", s.Index.ContextWindow, s.Index.NumOutput)},
		field{"Processors", strings.Join(s.Index.Processors, ", ")},
	)
	printSection(cmd, "Server",
		field{"Address", s.Server.Addr},
		field{"Request timeout", s.Server.RequestTimeout.String()},
	)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sercha-audio settings wizard' to fix configuration issues.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// prompter reads answers from the command's stdin.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
	raw io.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin()), raw: cmd.InOrStdin()}
}

// line prints label and returns the trimmed answer, or def when it is empty.
func (p *prompter) line(label, def string) string {
	if def != "" {
		p.cmd.Printf("%s [%s]: ", label, def)
	} else {
		p.cmd.Printf("%s: ", label)
	}
	input, _ := p.in.ReadString('\n')
	if input = strings.TrimSpace(input); input != "" {
		return input
	}
	return def
}

// choose lists providers and returns the selected one. Invalid input picks the first.
func (p *prompter) choose(title string, providers []domain.AIProvider) domain.AIProvider {
	p.cmd.Println(title)
	for i, provider := range providers {
		p.cmd.Printf("  %d. %s\n", i+1, provider.Description())
	}
	p.cmd.Println()
	return providers[parseChoice(p.line("Enter choice", "1"), len(providers), 1)-1]
}

// secret reads a value without echo when stdin is a terminal.
func (p *prompter) secret(label string) string {
	p.cmd.Printf("%s: ", label)
	defer p.cmd.Println()
	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if b, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	input, _ := p.in.ReadString('\n')
	return strings.TrimSpace(input)
}

// step configures and validates one provider.
type step struct {
	title string
	run   func(p *prompter) (string, error)
}

func runSteps(cmd *cobra.Command, steps ...step) error {
	if settingsService == nil {
		return errNoSettings
	}

	p := newPrompter(cmd)
	wizard := len(steps) > 1
	for i, s := range steps {
		if wizard {
			heading := fmt.Sprintf("Step %d: %s", i+1, s.title)
			cmd.Println(heading)
			cmd.Println(strings.Repeat("-", len(heading)))
		}
		summary, err := s.run(p)
		if err != nil {
			return err
		}
		cmd.Printf("%s configured: %s\n\n", s.title, summary)
	}

	if wizard {
		if err := settingsService.Validate(); err != nil {
			cmd.Printf("Warning: %v\n", err)
			return nil
		}
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func validated(what string, validate func() error, p *prompter) error {
	p.cmd.Print("Validating configuration... ")
	if err := validate(); err != nil {
		p.cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", what, err)
	}
	p.cmd.Println("OK")
	return nil
}

var speechStep = step{
	title: "Speech provider",
	run: func(p *prompter) (string, error) {
		p.cmd.Println("Provider: OpenAI-compatible transcription API")
		model := p.line("Enter model name", domain.DefaultSpeechModel)
		baseURL := p.line("Enter base URL (empty for api.openai.com)", "")
		apiKey := p.secret("Enter API key (empty for self-hosted servers)")

		if err := settingsService.SetSpeechProvider(domain.AIProviderOpenAI, model, apiKey, baseURL); err != nil {
			return "", fmt.Errorf("failed to configure speech provider: %w", err)
		}
		if err := validated("speech", settingsService.ValidateSpeechConfig, p); err != nil {
			return "", err
		}
		return model, nil
	},
}

// modelStep builds the shared provider/model/key flow for LLM and embedding settings.
func modelStep(
	title string,
	providers func() []domain.AIProvider,
	defaults func() map[domain.AIProvider]string,
	set func(domain.AIProvider, string, string) error,
	validate func() error,
) step {
	return step{
		title: title,
		run: func(p *prompter) (string, error) {
			provider := p.choose("Select "+title, providers())
			model := p.line("Enter model name", defaults()[provider])

			var apiKey string
			if provider.RequiresAPIKey() {
				if apiKey = p.secret("Enter API key"); apiKey == "" {
					return "", errors.New("API key is required for this provider")
				}
			}

			if err := set(provider, model, apiKey); err != nil {
				return "", fmt.Errorf("failed to configure %s: %w", strings.ToLower(title), err)
			}
			if err := validated(strings.ToLower(title), validate, p); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%s)", provider.Description(), model), nil
		},
	}
}

var llmStep = modelStep("LLM provider",
	domain.AllLLMProviders, domain.DefaultLLMModels,
	func(p domain.AIProvider, model, key string) error { return settingsService.SetLLMProvider(p, model, key) },
	func() error { return settingsService.ValidateLLMConfig() },
)

var embeddingStep = modelStep("Embedding provider",
	domain.AllEmbeddingProviders, domain.DefaultEmbeddingModels,
	func(p domain.AIProvider, model, key string) error { return settingsService.SetEmbeddingProvider(p, model, key) },
	func() error { return settingsService.ValidateEmbeddingConfig() },
)

func parseChoice(input string, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
