package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompt templates from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// Files are only created when first accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]*template.Template
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptTextQA: `Context information is below.
---------------------
{{.Context}}
---------------------
Given the context information and not prior knowledge, answer the query.
Query: {{.Query}}
Answer:`,

	driven.PromptRefine: `The original query is as follows: {{.Query}}
We have provided an existing answer: {{.Answer}}
We have the opportunity to refine the existing answer (only if needed) with some more context below.
------------
{{.Context}}
------------
Given the new context, refine the original answer to better answer the query. If the context isn't useful, return the original answer.
Refined Answer:`,

	driven.PromptTreeSummarize: `Context information from multiple sources is below.
---------------------
{{.Context}}
---------------------
Given the information from multiple sources and not prior knowledge, answer the query.
Query: {{.Query}}
Answer:`,

	driven.PromptRouterSelect: `Some choices are given below. It is provided in a numbered list (1 to {{.NumChoices}}), where each item in the list corresponds to a summary.
---------------------
{{.Choices}}
---------------------
Using only the choices above and not prior knowledge, return the choice that is most relevant to the question: '{{.Query}}'

The output should be ONLY a JSON list of objects with the fields "choice" (the number of the choice) and "reason" (why it was chosen), for example:
[{"choice": 1, "reason": "<your reason>"}]`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.sercha-audio/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".sercha-audio", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]*template.Template),
	}, nil
}

// Load returns the raw prompt template for the given name.
// User files take precedence over embedded defaults.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return prompt, nil
}

// Render executes the named template with data.
// Parsed templates are cached until Reload.
func (s *PromptStore) Render(name string, data any) (string, error) {
	tmpl, err := s.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

func (s *PromptStore) template(name string) (*template.Template, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	text, err := s.Load(name)
	if err != nil {
		return nil, err
	}

	tmpl, err = template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		// A broken user file must not take the service down.
		logger.Warn("prompt %q does not parse, using default: %v", name, err)
		def, ok := defaultPrompts[name]
		if !ok {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		tmpl = template.Must(template.New(name).Parse(def))
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		tmpl = cached
	} else {
		s.cache[name] = tmpl
	}
	s.mu.Unlock()

	return tmpl, nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]*template.Template)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads prompts whenever a file in the prompt directory changes.
// It blocks until ctx is done.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.promptDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".txt") {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				logger.Debug("prompt file changed: %s", filepath.Base(ev.Name))
				s.Reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Sercha Audio Prompts

This directory contains the prompts used to answer questions about transcripts.

## Files

- ` + "`text_qa.txt`" + ` - Answers a question from retrieved transcript passages
- ` + "`refine.txt`" + ` - Refines an answer with further passages
- ` + "`tree_summarize.txt`" + ` - Combines passages or partial answers into one answer
- ` + "`router_select.txt`" + ` - Picks the summary or retrieval strategy for a question

## Customisation

Edit any file to customise LLM behaviour. A running server picks up changes
immediately; other commands read them on the next run.

## Template Fields

Prompts are Go text/template documents:
- ` + "`{{.Context}}`" + ` - Transcript passages or partial answers
- ` + "`{{.Query}}`" + ` - The user's question
- ` + "`{{.Answer}}`" + ` - The answer being refined (refine only)
- ` + "`{{.Choices}}`" + `, ` + "`{{.NumChoices}}`" + ` - Numbered strategies (router_select only)

A template that fails to parse falls back to the built-in default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
