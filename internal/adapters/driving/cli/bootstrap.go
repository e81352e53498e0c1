package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/config/file"
	llmselector "github.com/custodia-labs/sercha-audio/internal/adapters/driven/selector/llm"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/transcoder/ffmpeg"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/core/services"
	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
	"github.com/custodia-labs/sercha-audio/internal/normalisers"
	"github.com/custodia-labs/sercha-audio/internal/normalisers/mpeg"
	"github.com/custodia-labs/sercha-audio/internal/normalisers/webm"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors"
)

// annotationNoBootstrap marks commands that need no configuration.
const annotationNoBootstrap = "no-bootstrap"

// watcher reloads configuration until its context ends.
type watcher interface {
	Watch(ctx context.Context) error
}

// closers release wired resources in reverse order.
var closers []func()

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

// loadEnvFile loads variables from path without overriding ones already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	logger.Debug("loaded environment from %s", path)
	return nil
}

// initSettings wires the settings service and reads the current settings.
func initSettings() error {
	if settingsService == nil {
		var store driven.ConfigStore
		if ephemeral {
			store = memory.NewConfigStore()
		} else {
			fs, err := file.NewConfigStore(configDir)
			if err != nil {
				return fmt.Errorf("opening config: %w", err)
			}
			store = fs
		}
		settingsService = services.NewSettingsService(store, ai.NewConfigValidator(),
			services.WithEnvLookup(os.LookupEnv))
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	appSettings = settings
	return nil
}

// dataPath returns a path under the configuration directory, or "" for the
// adapter's own default.
func dataPath(name string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, name)
}

// initPipeline wires the transcription and chat services from appSettings.
// Services already assigned are left alone.
func initPipeline() error {
	if transcriptionService != nil && chatService != nil {
		return nil
	}
	if appSettings == nil {
		if err := initSettings(); err != nil {
			return err
		}
	}
	settings := appSettings

	if appMetrics == nil {
		appMetrics = metrics.New()
	}

	models := ai.Init(settings, true)
	closers = append(closers, models.Close)

	transcoder := ffmpeg.New(ffmpeg.Config{Path: settings.Transcription.FFmpegPath})
	if err := transcoder.Ping(context.Background()); err != nil {
		logger.Warn("WebM uploads will fail: %v", err)
	}
	registry := normalisers.NewRegistry(webm.New(transcoder), mpeg.New())
	mediaTypes = registry.SupportedMediaTypes()

	transcriber := services.NewTranscriber(models.SpeechService,
		services.WithTranscriberMetrics(appMetrics))
	if transcriptionService == nil {
		transcriptionService = services.NewTranscriptionService(
			registry, transcriber, settings.Transcription.ChunkDuration, appMetrics)
	}

	if chatService != nil {
		return nil
	}

	tokens := tokenizer.New(settings.Index.TokenEncoding)
	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := processors.BuildPipeline(settings.Index.Processors, postprocessors.Deps{Tokens: tokens},
		map[string]any{
			"chunk_size":    settings.Index.ChunkSize,
			"chunk_overlap": settings.Index.ChunkOverlap,
		})
	if err != nil {
		return fmt.Errorf("building node pipeline: %w", err)
	}

	prompts, err := file.NewPromptStore(dataPath("prompts"))
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}
	promptWatcher = prompts

	embeddings := models.EmbeddingService
	if embeddings != nil && settings.Index.PersistEmbeddings && !ephemeral {
		store, err := sqlite.NewStore(dataPath("data"))
		if err != nil {
			logger.Warn("embedding cache disabled: %v", err)
		} else {
			closers = append(closers, func() { _ = store.Close() })
			embeddings = services.NewCachedEmbeddingService(embeddings, store.EmbeddingCache(), appMetrics)
		}
	}

	synth := services.NewSynthesizer(
		services.NewLLMAnswerer(models.LLMService, settings.Index.NumOutput),
		prompts,
		tokens,
		services.SynthesizerConfig{
			ContextWindow: settings.Index.ContextWindow,
			NumOutput:     settings.Index.NumOutput,
			Concurrency:   settings.Index.SummaryConcurrency,
		})

	indexer := services.NewIndexer(pipeline, embeddings, newVectorIndex, synth, settings.Index.SimilarityTopK)
	cache, err := services.NewIndexCache(indexer, settings.Index.CacheSize, appMetrics)
	if err != nil {
		return fmt.Errorf("creating index cache: %w", err)
	}

	router := services.NewQueryRouter(llmselector.New(models.LLMService, prompts), appMetrics)
	chatService = services.NewChatService(cache, router)
	return nil
}

// terminalProgress redraws a single "Transcribing n/total" line when f is a
// terminal. Elsewhere it returns nil and the per-chunk log lines suffice.
func terminalProgress(f *os.File) services.ProgressFunc {
	if !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(f, "\rTranscribing %d/%d", done, total)
		if done == total {
			fmt.Fprintln(f)
		}
	}
}

func newVectorIndex(dimensions int) driven.VectorIndex {
	return memory.NewVectorIndex(dimensions)
}
