// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Transcription
//
//   - NormaliserRegistry / AudioNormaliser: Decode uploads into waveforms
//   - Transcoder: External container conversion (ffmpeg)
//   - SpeechToText: Per-chunk speech recognition
//
// # Question Answering
//
//   - LLMService: Language model calls, adapted to Answerer
//   - EmbeddingService: Vector embeddings for the vector index
//   - VectorIndex: Per-transcript similarity search
//   - TokenCounter: Token measurement for segmentation and prompt packing
//   - Chooser: Picks the query strategy for a question
//   - PromptStore: Prompt templates with user overrides
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingCache: Persistent embedding cache (SQLite)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
