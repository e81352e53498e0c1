// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The audio pipeline is split across:
//   - TranscriptionService and Transcriber: normalise, chunk and transcribe uploads
//   - Indexer and Synthesizer: segment transcripts and answer over them
//   - QueryRouter and ChatService: pick a query engine per question
//   - SettingsService: map the config store onto domain.AppSettings
//
// Services are pure Go with no CGO or external processes.
package services
